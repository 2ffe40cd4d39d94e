// Command incidents lists and resolves checkouts that committed stock without
// recording a receipt.
//
//	incidents [-all]
//	incidents -resolve <id> [-note "..."] [-by operator]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/config"
	"go-inventory-pos/pkg/database"
)

func main() {
	all := flag.Bool("all", false, "include resolved incidents")
	resolve := flag.String("resolve", "", "id of the incident to mark resolved")
	note := flag.String("note", "", "resolution note")
	by := flag.String("by", "cli", "operator name recorded as resolver")
	flag.Parse()

	// 1. Load config
	cfg := config.Load()

	// 2. Setup Database
	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	incidents := service.NewIncidentService(repository.NewIncidentRepo(db))
	ctx := context.Background()

	// 3. Resolve
	if *resolve != "" {
		incident, err := incidents.Resolve(ctx, *resolve, *by, *note)
		if err != nil {
			log.Fatalf("❌ Failed to resolve incident %s: %v", *resolve, err)
		}
		log.Printf("✅ Incident %s resolved by %s", incident.ID, incident.ResolvedBy)
		return
	}

	// 4. List
	list, err := incidents.List(ctx, *all)
	if err != nil {
		log.Fatalf("❌ Failed to list incidents: %v", err)
	}
	if len(list) == 0 {
		log.Println("✅ No incidents")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tUSER\tRESOLVED\tDECREMENTS\tREASON")
	for _, inc := range list {
		decrements := ""
		for i, d := range inc.Decrements {
			if i > 0 {
				decrements += ", "
			}
			decrements += fmt.Sprintf("%s x%d", d.Name, d.Quantity)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n",
			inc.ID, inc.CreatedAt.Format("2006-01-02 15:04:05"), inc.UserID, inc.Resolved, decrements, inc.Reason)
	}
	w.Flush()
}

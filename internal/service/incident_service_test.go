package service_test

import (
	"context"
	"testing"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedIncident(t *testing.T, f *fixture, reason string) *model.CheckoutIncident {
	t.Helper()
	incident := &model.CheckoutIncident{
		UserID:     f.session.UserID,
		Decrements: []model.StockDecrement{{ProductID: uuid.New(), Name: "A", Quantity: 2}},
		Reason:     reason,
	}
	require.NoError(t, f.incidentRepo.Create(context.Background(), incident))
	return incident
}

func TestIncidentService_ListAndResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	incidents := service.NewIncidentService(f.incidentRepo)
	first := seedIncident(t, f, "first")
	seedIncident(t, f, "second")

	open, err := incidents.ReportOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), open)

	resolved, err := incidents.Resolve(ctx, first.ID.String(), "admin", " restocked by hand ")
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	assert.Equal(t, "admin", resolved.ResolvedBy)
	assert.Equal(t, "restocked by hand", resolved.Note)
	require.NotNil(t, resolved.ResolvedAt)
	require.Len(t, resolved.Decrements, 1)
	assert.Equal(t, 2, resolved.Decrements[0].Quantity)

	// resolving again keeps the first resolution
	again, err := incidents.Resolve(ctx, first.ID.String(), "someone-else", "")
	require.NoError(t, err)
	assert.Equal(t, "admin", again.ResolvedBy)

	list, err := incidents.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Reason)

	all, err := incidents.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err = incidents.ReportOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)
}

func TestIncidentService_ResolveUnknown(t *testing.T) {
	f := newFixture(t)
	incidents := service.NewIncidentService(f.incidentRepo)

	_, err := incidents.Resolve(context.Background(), uuid.NewString(), "admin", "")
	assertCode(t, err, apperr.CodeNotFound)
	_, err = incidents.Resolve(context.Background(), "bogus", "admin", "")
	assertCode(t, err, apperr.CodeNotFound)
}

func TestStartIncidentSweeper(t *testing.T) {
	f := newFixture(t)
	incidents := service.NewIncidentService(f.incidentRepo)

	_, err := service.StartIncidentSweeper("not a schedule", incidents)
	assert.Error(t, err)

	scheduler, err := service.StartIncidentSweeper("@every 1h", incidents)
	require.NoError(t, err)
	assert.Len(t, scheduler.Entries(), 1)
	<-scheduler.Stop().Done()
}

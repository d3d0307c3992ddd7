// tests/integration/main_test.go
package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bunkhaus/internal/auth"
	"bunkhaus/internal/blobstore"
	"bunkhaus/internal/clients"
	"bunkhaus/internal/inventory"
	"bunkhaus/internal/membership"
	"bunkhaus/internal/server"
)

type testEnv struct {
	server *httptest.Server
	client *clients.Client
	store  blobstore.Store
}

// setupEnv wires the full stack over an in-memory store, the same
// assembly as cmd/server minus the listener.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := blobstore.NewMemory()
	inv := inventory.NewService(store, logger)
	members := membership.NewService(inv, store, logger)
	au := auth.NewService(store, logger)
	require.NoError(t, au.Seed(ctx, "owner", "welcome123"))

	handler := server.NewRouter(server.Deps{
		Inventory:    inv,
		Membership:   members,
		Auth:         au,
		AuthRequired: true,
		Logger:       logger,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testEnv{
		server: srv,
		client: clients.New(srv.URL),
		store:  store,
	}
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	token, err := e.client.Login(context.Background(), "owner", "welcome123")
	require.NoError(t, err)
	e.client.SetToken(token)
}

func sampleProperty() inventory.CreatePropertyRequest {
	return inventory.CreatePropertyRequest{
		Name: "Sunrise PG",
		Type: inventory.TypeHostelPG,
		City: "Pune",
		Buildings: []inventory.BuildingSpec{
			{
				Name: "Main Block",
				Floors: []inventory.FloorSpec{
					{Label: "G", Rooms: []inventory.RoomSpec{
						{RoomNumber: "101", ShareType: inventory.ShareDouble},
						{RoomNumber: "102", ShareType: inventory.ShareTriple},
					}},
				},
			},
		},
	}
}

func bedPathInto(p *inventory.Property, room, bed int) *inventory.BedPath {
	r := p.Buildings[0].Floors[0].Rooms[room]
	return &inventory.BedPath{
		PropertyID: p.ID,
		BuildingID: p.Buildings[0].ID,
		FloorID:    p.Buildings[0].Floors[0].ID,
		RoomID:     r.ID,
		BedID:      r.Beds[bed].ID,
	}
}

func occupiedCount(p *inventory.Property) int {
	n := 0
	for _, b := range p.Buildings {
		for _, f := range b.Floors {
			for _, r := range f.Rooms {
				for _, bed := range r.Beds {
					if bed.Occupied {
						n++
					}
				}
			}
		}
	}
	return n
}

func TestAPIRequiresSession(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_, err := env.client.ListProperties(ctx)
	require.Error(t, err, "unauthenticated requests are rejected")

	env.login(t)
	props, err := env.client.ListProperties(ctx)
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestMemberLifecycle(t *testing.T) {
	env := setupEnv(t)
	env.login(t)
	ctx := context.Background()

	p, err := env.client.CreateProperty(ctx, sampleProperty())
	require.NoError(t, err)
	assert.Equal(t, 5, p.TotalBeds)

	path := bedPathInto(p, 0, 0)
	m, err := env.client.AddMember(ctx, membership.Member{
		Name:       "Ravi",
		Phone:      "9876543210",
		JoinedDate: "2024-06-01",
		Assignment: path,
	})
	require.NoError(t, err)

	got, err := env.client.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, occupiedCount(got))

	// Payment recorded through the API derives the clamped due date.
	paid, err := env.client.RecordPayment(ctx, m.ID, membership.PaymentRecord{
		PayDate:     "2024-01-31",
		CycleMonths: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", paid.NextDueDate)

	statuses, err := env.client.ListMemberStatuses(ctx, "date=2024-06-15")
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "due", string(statuses[0].Status))

	require.NoError(t, env.client.RemoveMember(ctx, m.ID))
	got, err = env.client.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, occupiedCount(got))
}

func TestReconcileHealsManualFlips(t *testing.T) {
	env := setupEnv(t)
	env.login(t)
	ctx := context.Background()

	p, err := env.client.CreateProperty(ctx, sampleProperty())
	require.NoError(t, err)

	assigned := bedPathInto(p, 1, 1)
	_, err = env.client.AddMember(ctx, membership.Member{Name: "Asha", Assignment: assigned})
	require.NoError(t, err)

	// Drift injected over the API: a stray occupied flag and the
	// member's own bed released.
	require.NoError(t, env.client.SetBedOccupancy(ctx, *bedPathInto(p, 0, 1), true))
	require.NoError(t, env.client.SetBedOccupancy(ctx, *assigned, false))

	require.NoError(t, env.client.ReconcileMembers(ctx))

	got, err := env.client.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, occupiedCount(got))

	// A second reconcile changes nothing.
	require.NoError(t, env.client.ReconcileMembers(ctx))
	again, err := env.client.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestStateSurvivesRestart(t *testing.T) {
	env := setupEnv(t)
	env.login(t)
	ctx := context.Background()

	p, err := env.client.CreateProperty(ctx, sampleProperty())
	require.NoError(t, err)
	m, err := env.client.AddMember(ctx, membership.Member{
		Name:       "Ravi",
		Assignment: bedPathInto(p, 0, 0),
	})
	require.NoError(t, err)

	// Fresh services over the same store stand in for a process
	// restart.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inv := inventory.NewService(env.store, logger)
	require.NoError(t, inv.Load(ctx))
	members := membership.NewService(inv, env.store, logger)
	require.NoError(t, members.Load(ctx))

	reloaded, err := members.GetMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", reloaded.Name)

	got, err := inv.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, occupiedCount(got))
}

// internal/drift/drift.go
package drift

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"bunkhaus/internal/inventory"
	"bunkhaus/internal/membership"
)

// Experiment injects occupancy drift and checks that reconciliation
// restores the invariant: a bed is occupied iff a member's assignment
// resolves to it.
type Experiment struct {
	Name       string `json:"name"`
	Hypothesis string `json:"hypothesis"`
	// Flips is how many randomly chosen beds get their occupancy flag
	// inverted before reconciliation runs.
	Flips int   `json:"flips"`
	Seed  int64 `json:"seed"`
}

// DefaultExperiment is the standard weekly drift check.
func DefaultExperiment() Experiment {
	return Experiment{
		Name:       "occupancy-drift-injection",
		Hypothesis: "Reconciliation heals arbitrary bed-flag drift from the member list",
		Flips:      10,
		Seed:       time.Now().UnixNano(),
	}
}

// Result captures one experiment run.
type Result struct {
	ExperimentName string        `json:"experiment_name"`
	StartTime      time.Time     `json:"start_time"`
	Duration       time.Duration `json:"duration"`
	Injected       int           `json:"injected"`
	DriftBefore    int           `json:"drift_before"`
	DriftAfter     int           `json:"drift_after"`
	HypothesisHeld bool          `json:"hypothesis_held"`
}

// Runner executes drift experiments against live services.
type Runner struct {
	inventory inventory.Service
	members   membership.Service
	logger    *slog.Logger
}

func NewRunner(inv inventory.Service, members membership.Service, logger *slog.Logger) *Runner {
	return &Runner{inventory: inv, members: members, logger: logger}
}

func (r *Runner) Run(ctx context.Context, exp Experiment) (Result, error) {
	result := Result{ExperimentName: exp.Name, StartTime: time.Now()}

	paths, err := r.allBedPaths(ctx)
	if err != nil {
		return result, err
	}
	if len(paths) == 0 {
		return result, fmt.Errorf("no beds to drift")
	}

	rng := rand.New(rand.NewSource(exp.Seed))
	occupied, err := r.occupancyByKey(ctx)
	if err != nil {
		return result, err
	}
	for i := 0; i < exp.Flips; i++ {
		path := paths[rng.Intn(len(paths))]
		if err := r.inventory.SetBedOccupancy(ctx, path, !occupied[path.Key()]); err != nil {
			return result, fmt.Errorf("inject drift: %w", err)
		}
		result.Injected++
	}

	result.DriftBefore, err = r.countDrift(ctx)
	if err != nil {
		return result, err
	}
	r.logger.Info("drift injected", "flips", result.Injected, "drift", result.DriftBefore)

	if err := r.members.Reconcile(ctx); err != nil {
		return result, fmt.Errorf("reconcile: %w", err)
	}

	result.DriftAfter, err = r.countDrift(ctx)
	if err != nil {
		return result, err
	}
	result.HypothesisHeld = result.DriftAfter == 0
	result.Duration = time.Since(result.StartTime)
	return result, nil
}

func (r *Runner) allBedPaths(ctx context.Context) ([]inventory.BedPath, error) {
	props, err := r.inventory.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	var paths []inventory.BedPath
	for _, p := range props {
		for _, b := range p.Buildings {
			for _, f := range b.Floors {
				for _, room := range f.Rooms {
					for _, bed := range room.Beds {
						paths = append(paths, inventory.BedPath{
							PropertyID: p.ID,
							BuildingID: b.ID,
							FloorID:    f.ID,
							RoomID:     room.ID,
							BedID:      bed.ID,
						})
					}
				}
			}
		}
	}
	return paths, nil
}

func (r *Runner) occupancyByKey(ctx context.Context) (map[string]bool, error) {
	props, err := r.inventory.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	for _, p := range props {
		for _, b := range p.Buildings {
			for _, f := range b.Floors {
				for _, room := range f.Rooms {
					for _, bed := range room.Beds {
						path := inventory.BedPath{
							PropertyID: p.ID, BuildingID: b.ID,
							FloorID: f.ID, RoomID: room.ID, BedID: bed.ID,
						}
						out[path.Key()] = bed.Occupied
					}
				}
			}
		}
	}
	return out, nil
}

// countDrift counts beds whose flag disagrees with the member list.
func (r *Runner) countDrift(ctx context.Context) (int, error) {
	members, err := r.members.ListMembers(ctx)
	if err != nil {
		return 0, err
	}
	assigned := make(map[string]struct{})
	for i := range members {
		if members[i].Assigned() {
			assigned[members[i].Assignment.Key()] = struct{}{}
		}
	}

	occupied, err := r.occupancyByKey(ctx)
	if err != nil {
		return 0, err
	}
	drift := 0
	for key, occ := range occupied {
		_, want := assigned[key]
		if occ != want {
			drift++
		}
	}
	return drift, nil
}

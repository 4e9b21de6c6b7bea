package statedescriptionstore_test

import (
	"testing"

	statedescriptionstore "github.com/dalemusser/practicefinder/internal/app/store/statedescriptions"
	"github.com/dalemusser/practicefinder/internal/testutil"
)

func TestStore_FindByState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := statedescriptionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateStateDescription(ctx, "New York", "Empire State practices.")
	fixtures.CreateStateDescription(ctx, "York", "Not a state.")

	tests := []struct {
		query string
		want  int
	}{
		{"new york", 1},
		{"  NEW YORK ", 1},
		{"York", 1},
		{"New", 0},
		{"Ne.*", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := store.FindByState(ctx, tt.query)
			if err != nil {
				t.Fatalf("FindByState failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("FindByState(%q): got %d, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

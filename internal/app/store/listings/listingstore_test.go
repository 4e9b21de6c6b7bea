package listingstore_test

import (
	"testing"

	listingstore "github.com/dalemusser/practicefinder/internal/app/store/listings"
	"github.com/dalemusser/practicefinder/internal/app/system/listingquery"
	"github.com/dalemusser/practicefinder/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Search_TexasFourPlus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := listingstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// 30 Texas listings, 10 with four or more operatories.
	for i := 0; i < 30; i++ {
		op := 2
		if i < 10 {
			op = 4 + i%3
		}
		fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "Lone Star Dental", State: "Texas", City: "Austin", Type: "General", Operatory: op})
	}
	fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "Buckeye Smiles", State: "Ohio", City: "Columbus", Type: "General", Operatory: 6})

	q, err := listingquery.Build(listingquery.Request{Page: 1, Limit: 25, State: "Texas", Operatory: "4+"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	rows, total, err := store.Search(ctx, q)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 10 {
		t.Errorf("total: got %d, want 10", total)
	}
	if len(rows) != 10 {
		t.Errorf("rows: got %d, want 10", len(rows))
	}
	for _, r := range rows {
		if r.Operatory < 4 {
			t.Errorf("row %s has operatory %d", r.ID.Hex(), r.Operatory)
		}
	}
}

func TestStore_Search_StateOrSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := listingstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "Austin Family", State: "Texas", City: "Austin", Type: "General", Operatory: 3})
	fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "Smith Dental", State: "Ohio", City: "Dayton", Type: "General", Operatory: 3})
	fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "Other", State: "Maine", City: "Bangor", Type: "Ortho", Operatory: 3})

	q, err := listingquery.Build(listingquery.Request{State: "Texas", Search: "smith"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	rows, total, err := store.Search(ctx, q)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected Texas OR Smith to match 2 listings, got total=%d rows=%d", total, len(rows))
	}
}

func TestStore_Search_PageWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := listingstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 60; i++ {
		fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "Listing", State: "Iowa", City: "Ames", Type: "General", Operatory: 2})
	}

	tests := []struct {
		page, limit int
		wantRows    int
	}{
		{1, 25, 25},
		{2, 25, 25},
		{3, 25, 10},
		{4, 25, 0},
		{2, 50, 10},
		{1, 100, 60},
	}
	for _, tt := range tests {
		q, err := listingquery.Build(listingquery.Request{Page: tt.page, Limit: tt.limit})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		rows, total, err := store.Search(ctx, q)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if total != 60 {
			t.Errorf("page %d limit %d: total %d, want 60", tt.page, tt.limit, total)
		}
		if len(rows) != tt.wantRows {
			t.Errorf("page %d limit %d: rows %d, want %d", tt.page, tt.limit, len(rows), tt.wantRows)
		}
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := listingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_ExistsAndEstimatedTotal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := listingstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "A", State: "Utah"})
	fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "B", State: "Utah"})

	if ok, err := store.Exists(ctx, a.ID); err != nil || !ok {
		t.Errorf("Exists(present): ok=%v err=%v", ok, err)
	}
	if ok, err := store.Exists(ctx, primitive.NewObjectID()); err != nil || ok {
		t.Errorf("Exists(missing): ok=%v err=%v", ok, err)
	}
	if n, err := store.EstimatedTotal(ctx); err != nil || n != 2 {
		t.Errorf("EstimatedTotal: n=%d err=%v, want 2", n, err)
	}
}

func TestStore_Summaries_KeepsOrderAndDropsMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := listingstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "A", State: "Utah"})
	b := fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "B", State: "Utah"})
	gone := primitive.NewObjectID()

	got, err := store.Summaries(ctx, []primitive.ObjectID{b.ID, gone, a.ID})
	if err != nil {
		t.Fatalf("Summaries failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != a.ID {
		t.Errorf("unexpected summaries: %+v", got)
	}
}

func TestStore_DistinctCities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := listingstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "1", State: "Oregon", City: "Salem"})
	fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "2", State: "Oregon", City: "Bend"})
	fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "3", State: "Oregon", City: "Salem"})
	fixtures.CreatePractice(ctx, testutil.PracticeSpec{Name: "4", State: "Oregon", City: ""})

	cities, err := store.DistinctCities(ctx, "Oregon")
	if err != nil {
		t.Fatalf("DistinctCities failed: %v", err)
	}
	if len(cities) != 2 || cities[0] != "Bend" || cities[1] != "Salem" {
		t.Errorf("cities: got %v", cities)
	}
}

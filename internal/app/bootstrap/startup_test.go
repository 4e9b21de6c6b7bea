package bootstrap

import (
	"os"
	"testing"

	"github.com/dalemusser/practicefinder/internal/app/system/authutil"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"github.com/dalemusser/practicefinder/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	authutil.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func adminConfig(email string) AppConfig {
	return AppConfig{AdminEmail: email, AdminPassword: "adminpass1", AdminNPI: "1234567890"}
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdmin(ctx, deps, adminConfig("Admin@Test.com"), testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "admin@test.com"}).Decode(&user); err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("expected role ADMIN, got %q", user.Role)
	}
	if !user.Activated {
		t.Error("expected admin to be activated")
	}
	if user.NPI != "1234567890" {
		t.Errorf("npi: got %q", user.NPI)
	}
	if !authutil.CheckPassword(user.Password, "adminpass1") {
		t.Error("admin password does not verify")
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	existing := fixtures.CreateUser(ctx, "owner@test.com", "secret123", false)
	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdmin(ctx, deps, adminConfig("owner@test.com"), testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user); err != nil {
		t.Fatalf("failed to find user: %v", err)
	}
	if user.Role != models.RoleAdmin || !user.Activated {
		t.Errorf("not promoted: role=%q activated=%v", user.Role, user.Activated)
	}
	if !authutil.CheckPassword(user.Password, "secret123") {
		t.Error("promotion must keep the existing password")
	}

	n, _ := db.Collection("users").CountDocuments(ctx, bson.M{})
	if n != 1 {
		t.Errorf("expected 1 user, got %d", n)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	cfg := adminConfig("admin@test.com")

	for i := 0; i < 2; i++ {
		if err := ensureAdmin(ctx, deps, cfg, testLogger()); err != nil {
			t.Fatalf("ensureAdmin run %d failed: %v", i+1, err)
		}
	}
	n, _ := db.Collection("users").CountDocuments(ctx, bson.M{"email": "admin@test.com"})
	if n != 1 {
		t.Errorf("expected 1 admin, got %d", n)
	}
}

func TestEnsureAdmin_ShortPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := adminConfig("admin@test.com")
	cfg.AdminPassword = "short"

	if err := ensureAdmin(ctx, DBDeps{MongoDatabase: db}, cfg, testLogger()); err == nil {
		t.Fatal("expected an error for a short admin password")
	}
}

func TestStartup_NoAdminEmail(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// No database is touched when no admin is configured.
	if err := Startup(ctx, nil, AppConfig{}, DBDeps{}, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
}

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr bool
	}{
		{"empty", "dev", "", true},
		{"dev default in dev", "dev", devJWTSecret, false},
		{"dev default in prod", "prod", devJWTSecret, true},
		{"short in prod", "prod", "too-short", true},
		{"short in dev", "dev", "too-short", false},
		{"strong in prod", "prod", "0123456789abcdef0123456789abcdef-prod", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSecret(tt.env, tt.secret)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSecret(%q, %q) = %v, wantErr %v", tt.env, tt.secret, err, tt.wantErr)
			}
		})
	}
}

func TestCORSOptions(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"*"}},
		{"*", []string{"*"}},
		{"https://a.example.com, https://b.example.com ,", []string{"https://a.example.com", "https://b.example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := corsOptions(tt.in).AllowedOrigins
			if len(got) != len(tt.want) {
				t.Fatalf("origins: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("origins[%d]: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServiceName != "beverage-os" || cfg.Port != "5000" || cfg.StoreDriver != StoreMemory {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %s", cfg.TokenTTL)
	}
	if !cfg.AutoApproveOnLogin || cfg.RequireAuth {
		t.Errorf("unexpected auth flags %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected dev secret to be filled in")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("unexpected addr %s", cfg.Addr())
	}
	if cfg.TokenTTL != 2*time.Hour || !cfg.RequireAuth {
		t.Errorf("unexpected %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("MONGO_DATABASE=from_dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("MONGO_DATABASE") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MongoDatabase != "from_dotenv" {
		t.Errorf("expected .env value, got %q", cfg.MongoDatabase)
	}
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("mongo without uri", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "mongo")
		if _, err := Load(); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("prod without secret", func(t *testing.T) {
		t.Setenv("ENV", "prod")
		if _, err := Load(); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		if _, err := Load(); err == nil {
			t.Fatal("expected error")
		}
	})
}

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "dev" {
		t.Errorf("expected env dev, got %q", cfg.Env)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.ObjectStoreType != "local" {
		t.Errorf("expected local store, got %q", cfg.ObjectStoreType)
	}
	if cfg.JWTSecret == "" {
		t.Errorf("expected dev fallback jwt secret")
	}
	if cfg.DownloadURLSecret != cfg.JWTSecret {
		t.Errorf("expected download secret to fall back to jwt secret")
	}
}

func TestLoadProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for production without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/portal")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for production without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "super-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProduction() {
		t.Errorf("expected production mode")
	}
}

func TestNormalizeStoreType(t *testing.T) {
	cases := map[string]string{
		"s3":     "s3",
		"S3":     "s3",
		"minio":  "minio",
		"local":  "local",
		"bogus":  "local",
		"":       "local",
		" MINIO": "minio",
	}
	for in, want := range cases {
		if got := normalizeStoreType(in); got != want {
			t.Errorf("normalizeStoreType(%q) = %q, want %q", in, got, want)
		}
	}
}

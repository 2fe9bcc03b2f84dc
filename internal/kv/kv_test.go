package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// exerciseBackend runs the behaviour every backend must share.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := b.Get(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := b.Set(ctx, "tasks", `[{"id":1}]`); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, err := b.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != `[{"id":1}]` {
		t.Errorf("Get() = %q, want %q", got, `[{"id":1}]`)
	}

	if err := b.Set(ctx, "tasks", `[]`); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}
	if got, _ := b.Get(ctx, "tasks"); got != `[]` {
		t.Errorf("Get() after overwrite = %q, want %q", got, `[]`)
	}

	if err := b.Set(ctx, "darkMode", "true"); err != nil {
		t.Fatalf("Set(darkMode) failed: %v", err)
	}
	if got, _ := b.Get(ctx, "tasks"); got != `[]` {
		t.Errorf("keys are not independent: tasks = %q", got)
	}

	if err := b.Set(ctx, "../escape", "x"); err == nil {
		t.Error("Set() with path traversal key expected error")
	}
	if _, err := b.Get(ctx, ""); err == nil {
		t.Error("Get() with empty key expected error")
	}
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemory()
	defer b.Close()
	exerciseBackend(t, b)
}

func TestFileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	b, err := OpenFile(dir)
	if err != nil {
		t.Fatalf("OpenFile() failed: %v", err)
	}
	defer b.Close()
	exerciseBackend(t, b)

	info, err := os.Stat(b.Path("tasks"))
	if err != nil {
		t.Fatalf("record file missing: %v", err)
	}
	if info.Mode().Perm() != filePerms {
		t.Errorf("record mode = %v, want %v", info.Mode().Perm(), os.FileMode(filePerms))
	}
}

func TestFileBackendEmptyDir(t *testing.T) {
	if _, err := OpenFile(""); err == nil {
		t.Error("OpenFile(\"\") expected error")
	}
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "nexus.db")
	b, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	exerciseBackend(t, b)
	if err := b.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), "darkMode")
	if err != nil || got != "true" {
		t.Errorf("Get() after reopen = %q, %v; want %q", got, err, "true")
	}
}

func TestRedisBackend(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	prefix := "nexus-test:" + strconv.FormatInt(int64(os.Getpid()), 10) + ":"
	b, err := OpenRedis(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), 0, prefix)
	if err != nil {
		t.Fatalf("OpenRedis() failed: %v", err)
	}
	defer func() {
		ctx := context.Background()
		b.client.Del(ctx, b.Key("tasks"), b.Key("darkMode"))
		b.Close()
	}()
	exerciseBackend(t, b)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, Options{Kind: KindMemory})
	if err != nil {
		t.Fatalf("Open(memory) failed: %v", err)
	}
	if _, ok := b.(*Memory); !ok {
		t.Errorf("Open(memory) = %T, want *Memory", b)
	}

	b, err = Open(ctx, Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(default) failed: %v", err)
	}
	if _, ok := b.(*File); !ok {
		t.Errorf("Open(default) = %T, want *File", b)
	}

	if _, err := Open(ctx, Options{Kind: "etcd"}); err == nil {
		t.Error("Open(etcd) expected error")
	}
	if _, err := Open(ctx, Options{Kind: KindRedis}); err == nil {
		t.Error("Open(redis) without address expected error")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "file", want: KindFile},
		{in: " SQLite ", want: KindSQLite},
		{in: "redis", want: KindRedis},
		{in: "memory", want: KindMemory},
		{in: "s3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	for _, key := range []string{"tasks", "categories", "darkMode", "a.b-c_d"} {
		if err := ValidateKey(key); err != nil {
			t.Errorf("ValidateKey(%q) = %v, want nil", key, err)
		}
	}
	for _, key := range []string{"", ".hidden", "a/b", "a..b", "with space"} {
		if err := ValidateKey(key); err == nil {
			t.Errorf("ValidateKey(%q) = nil, want error", key)
		}
	}
}

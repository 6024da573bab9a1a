package workspace

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"filemcp/internal/fault"
)

func newTestWorkspace(t *testing.T) (*Workspace, string) {
	t.Helper()
	dir, err := os.MkdirTemp("", "workspace_test_")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	// Canonicalize: on macOS /var/folders is a symlink into /private
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("Failed to canonicalize temp directory: %v", err)
	}

	ws, err := New(resolved)
	if err != nil {
		t.Fatalf("New workspace failed: %v", err)
	}
	return ws, resolved
}

func TestNew(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		ws, dir := newTestWorkspace(t)
		if ws.Root() != dir {
			t.Errorf("Root() = %q, want %q", ws.Root(), dir)
		}
	})

	t.Run("empty root rejected", func(t *testing.T) {
		_, err := New("   ")
		if !fault.IsKind(err, fault.Validation) {
			t.Errorf("Expected ValidationError, got %v", err)
		}
	})

	t.Run("missing root rejected", func(t *testing.T) {
		_, err := New("/no/such/workspace/root")
		if !fault.IsKind(err, fault.NotFound) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})

	t.Run("file as root rejected", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "afile")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := New(file)
		if !fault.IsKind(err, fault.Validation) {
			t.Errorf("Expected ValidationError, got %v", err)
		}
	})

	t.Run("reserved directory rejected", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix-specific reserved path")
		}
		_, err := New("/etc")
		if !fault.IsKind(err, fault.Validation) {
			t.Errorf("Expected ValidationError for /etc, got %v", err)
		}
	})
}

func TestResolve(t *testing.T) {
	ws, dir := newTestWorkspace(t)

	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(dir, "sub", "file.txt")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("existing file inside root", func(t *testing.T) {
		got, err := ws.Resolve(existing)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got != existing {
			t.Errorf("Resolve = %q, want %q", got, existing)
		}
	})

	t.Run("relative path resolves against root", func(t *testing.T) {
		got, err := ws.Resolve(filepath.Join("sub", "file.txt"))
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got != existing {
			t.Errorf("Resolve = %q, want %q", got, existing)
		}
	})

	t.Run("root itself is allowed", func(t *testing.T) {
		got, err := ws.Resolve(dir)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got != dir {
			t.Errorf("Resolve = %q, want %q", got, dir)
		}
	})

	t.Run("non-existent file inside root", func(t *testing.T) {
		candidate := filepath.Join(dir, "sub", "new.txt")
		got, err := ws.Resolve(candidate)
		if err != nil {
			t.Fatalf("Resolve failed for non-existent target: %v", err)
		}
		if got != candidate {
			t.Errorf("Resolve = %q, want %q", got, candidate)
		}
	})

	t.Run("dotdot traversal rejected", func(t *testing.T) {
		_, err := ws.Resolve(filepath.Join(dir, "..", "etc", "passwd"))
		if !fault.IsKind(err, fault.OutOfBounds) {
			t.Errorf("Expected OutOfBoundsError, got %v", err)
		}
	})

	t.Run("absolute outside path rejected", func(t *testing.T) {
		_, err := ws.Resolve("/etc/passwd")
		if !fault.IsKind(err, fault.OutOfBounds) {
			t.Errorf("Expected OutOfBoundsError, got %v", err)
		}
	})

	t.Run("relative traversal rejected", func(t *testing.T) {
		_, err := ws.Resolve("../outside.txt")
		if !fault.IsKind(err, fault.OutOfBounds) {
			t.Errorf("Expected OutOfBoundsError, got %v", err)
		}
	})

	t.Run("empty path rejected", func(t *testing.T) {
		_, err := ws.Resolve("  ")
		if !fault.IsKind(err, fault.Validation) {
			t.Errorf("Expected ValidationError, got %v", err)
		}
	})

	t.Run("sibling prefix is not containment", func(t *testing.T) {
		// /tmp/ws-evil must not count as inside /tmp/ws
		sibling := dir + "-evil"
		if err := os.MkdirAll(sibling, 0755); err != nil {
			t.Fatal(err)
		}
		defer os.RemoveAll(sibling)

		_, err := ws.Resolve(filepath.Join(sibling, "file.txt"))
		if !fault.IsKind(err, fault.OutOfBounds) {
			t.Errorf("Expected OutOfBoundsError for sibling prefix, got %v", err)
		}
	})

	t.Run("symlink escaping root rejected", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlink test is unix-specific")
		}
		outside, err := os.MkdirTemp("", "workspace_outside_")
		if err != nil {
			t.Fatal(err)
		}
		defer os.RemoveAll(outside)

		link := filepath.Join(dir, "escape")
		if err := os.Symlink(outside, link); err != nil {
			t.Fatal(err)
		}

		_, err = ws.Resolve(filepath.Join(link, "file.txt"))
		if !fault.IsKind(err, fault.OutOfBounds) {
			t.Errorf("Expected OutOfBoundsError through symlink, got %v", err)
		}
	})

	t.Run("error message omits resolved target", func(t *testing.T) {
		_, err := ws.Resolve(filepath.Join(dir, "..", "somewhere", "secret"))
		if err == nil {
			t.Fatal("Expected error")
		}
		msg := fault.MessageOf(err)
		if msg == "" {
			t.Fatal("Expected a client-safe message")
		}
	})
}

func TestRel(t *testing.T) {
	ws, dir := newTestWorkspace(t)

	rel := ws.Rel(filepath.Join(dir, "sub", "file.txt"))
	if rel != filepath.Join("sub", "file.txt") {
		t.Errorf("Rel = %q, want %q", rel, filepath.Join("sub", "file.txt"))
	}

	if ws.Rel(dir) != "." {
		t.Errorf("Rel(root) = %q, want %q", ws.Rel(dir), ".")
	}
}

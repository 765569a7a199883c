package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("archive-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	written, err := Download(context.Background(), server.Client(), server.URL, dest)
	if err != nil {
		t.Fatalf("download error: %v", err)
	}
	if written != int64(len("archive-bytes")) {
		t.Fatalf("unexpected byte count: %d", written)
	}

	body, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file error: %v", err)
	}
	if string(body) != "archive-bytes" {
		t.Fatalf("downloaded payload mismatch: %s", string(body))
	}
}

func TestDownloadRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "missing.zip")
	if _, err := Download(context.Background(), server.Client(), server.URL, dest); err == nil {
		t.Fatalf("expected 404 to fail the download")
	}
}

func TestInstallZip(t *testing.T) {
	store := newTestStore(t)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"decoded/AlexNet/conv1/S1/conv1_a.mat": "one",
		"decoded/AlexNet/conv1/S2/conv1_a.mat": "two",
	} {
		member, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip member error: %v", err)
		}
		if _, err := member.Write([]byte(body)); err != nil {
			t.Fatalf("write zip member error: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip error: %v", err)
	}

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	if err := os.WriteFile(zipPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write zip error: %v", err)
	}

	if err := InstallZip(context.Background(), store, zipPath, ""); err != nil {
		t.Fatalf("install zip error: %v", err)
	}
	if !store.Exists("decoded/AlexNet/conv1/S1/conv1_a.mat") {
		t.Fatalf("expected first member to be installed")
	}
	if !store.Exists("decoded/AlexNet/conv1/S2/conv1_a.mat") {
		t.Fatalf("expected second member to be installed")
	}
}

func TestInstallZipPrefix(t *testing.T) {
	store := newTestStore(t)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	member, err := zw.Create("inner.mat")
	if err != nil {
		t.Fatalf("create zip member error: %v", err)
	}
	member.Write([]byte("x"))
	zw.Close()

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	if err := os.WriteFile(zipPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write zip error: %v", err)
	}

	if err := InstallZip(context.Background(), store, zipPath, "decoded/AlexNet"); err != nil {
		t.Fatalf("install zip error: %v", err)
	}
	if !store.Exists("decoded/AlexNet/inner.mat") {
		t.Fatalf("expected member to land under the prefix")
	}
}

func TestInstallZipRejectsCorruptArchive(t *testing.T) {
	store := newTestStore(t)
	zipPath := filepath.Join(t.TempDir(), "broken.zip")
	if err := os.WriteFile(zipPath, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if err := InstallZip(context.Background(), store, zipPath, ""); err == nil {
		t.Fatalf("expected corrupt archive to fail")
	}
}

func TestWorkspaceLifecycle(t *testing.T) {
	ws, err := NewWorkspace()
	if err != nil {
		t.Fatalf("workspace error: %v", err)
	}

	if err := os.WriteFile(ws.Path("scratch.zip"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write into workspace error: %v", err)
	}

	other, err := NewWorkspace()
	if err != nil {
		t.Fatalf("second workspace error: %v", err)
	}
	if other.Dir() == ws.Dir() {
		t.Fatalf("workspaces must not collide: %s", ws.Dir())
	}
	other.Close()

	if err := ws.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}
	if _, err := os.Stat(ws.Dir()); !os.IsNotExist(err) {
		t.Fatalf("workspace not removed: %v", err)
	}
}

func TestReadConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false}, // 空输入按拒绝处理
		{"anything else\n", false},
	}

	for _, tc := range cases {
		var prompt bytes.Buffer
		got, err := readConfirm("Download?", &prompt, strings.NewReader(tc.input))
		if err != nil {
			t.Fatalf("input %q: confirm error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("input %q: expected %v got %v", tc.input, tc.want, got)
		}
		if !strings.Contains(prompt.String(), "[y/N]") {
			t.Fatalf("prompt missing default hint: %s", prompt.String())
		}
	}
}

func TestNewClientTimeout(t *testing.T) {
	if client := NewClient(0); client.Timeout != 0 {
		t.Fatalf("zero timeout must mean unlimited")
	}
}

package god

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/bdds/bdds/internal/dataset"
	"github.com/bdds/bdds/internal/mat"
	"github.com/bdds/bdds/internal/resolve"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(dataset.Env{Logger: logger})
}

func TestPlanRequiresMode(t *testing.T) {
	adapter := newTestAdapter(t)
	if _, err := adapter.Plan(dataset.Selection{}); !errors.Is(err, dataset.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if _, err := adapter.Plan(dataset.Selection{"mode": {"bogus"}}); !errors.Is(err, dataset.ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
}

func TestResolveFMRIDefaultsToAllSubjects(t *testing.T) {
	adapter := newTestAdapter(t)

	items, err := resolve.Items(adapter, dataset.Selection{"mode": {"fmri"}})
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected five subjects, got %d", len(items))
	}
	if items[0].RelPath != "Subject1.mat" || items[4].RelPath != "Subject5.mat" {
		t.Fatalf("unexpected paths: %v", items)
	}
}

func TestResolveFMRISubset(t *testing.T) {
	adapter := newTestAdapter(t)

	items, err := resolve.Items(adapter, dataset.Selection{
		"mode":    {"fmri"},
		"subject": {"Subject3"},
	})
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if len(items) != 1 || items[0].RelPath != "Subject3.mat" {
		t.Fatalf("unexpected items: %v", items)
	}

	_, err = resolve.Items(adapter, dataset.Selection{
		"mode":    {"fmri"},
		"subject": {"Subject9"},
	})
	if !errors.Is(err, dataset.ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
}

func TestResolveImageFeaturesIgnoresSubject(t *testing.T) {
	adapter := newTestAdapter(t)

	items, err := resolve.Items(adapter, dataset.Selection{
		"mode":    {"image_features"},
		"subject": {"Subject1"}, // 与 image_features 无关，应被忽略
	})
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if len(items) != 1 || items[0].RelPath != "ImageFeatures.h5" {
		t.Fatalf("unexpected items: %v", items)
	}
	if _, ok := items[0].Identifier.Get("subject"); ok {
		t.Fatalf("subject dim must not survive normalization")
	}
}

func TestRemoteFilesOrderAndURLs(t *testing.T) {
	adapter := newTestAdapter(t)

	files := adapter.RemoteFiles()
	if len(files) != 6 {
		t.Fatalf("unexpected remote file count: %d", len(files))
	}
	if files[0].Name != "Subject1.mat" || files[5].Name != "ImageFeatures.h5" {
		t.Fatalf("unexpected order: %v", files)
	}
	if files[0].URL != "http://brainliner.jp/download/32/downloadSupplementaryFile" {
		t.Fatalf("unexpected url: %s", files[0].URL)
	}
	if files[5].URL != "http://brainliner.jp/download/1332/downloadDataFile" {
		t.Fatalf("unexpected url: %s", files[5].URL)
	}
}

func TestRemoteBaseOverride(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	adapter := New(dataset.Env{
		Logger:     logger,
		RemoteBase: "https://mirror.example.org/god",
		URLSuffix:  "?token=abc",
	})

	url, err := adapter.urlFor("Subject1.mat")
	if err != nil {
		t.Fatalf("url mapping error: %v", err)
	}
	if url != "https://mirror.example.org/god/Subject1.mat?token=abc" {
		t.Fatalf("unexpected url: %s", url)
	}
}

func TestURLForUnknownFile(t *testing.T) {
	adapter := newTestAdapter(t)
	if _, err := adapter.urlFor("Subject9.mat"); err == nil {
		t.Fatalf("expected unknown file to fail without a RemoteBase")
	}
}

func TestParseFallsBackToMAT(t *testing.T) {
	adapter := newTestAdapter(t)
	path := filepath.Join(t.TempDir(), "Subject1.mat")
	if err := mat.WriteFile(path, &mat.Array{Name: "dataSet", Dims: []int{2, 2}, Data: []float64{1, 2, 3, 4}}); err != nil {
		t.Fatalf("write fixture error: %v", err)
	}

	payload, err := adapter.Parse(path)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	file, ok := payload.(mat.File)
	if !ok {
		t.Fatalf("unexpected payload type %T", payload)
	}
	if file["dataSet"] == nil {
		t.Fatalf("dataSet variable missing")
	}
}

func TestRegistered(t *testing.T) {
	reg, ok := dataset.Resolve("god")
	if !ok {
		t.Fatalf("adapter not registered")
	}
	if reg.Meta.Subdir != "god" {
		t.Fatalf("unexpected subdir: %s", reg.Meta.Subdir)
	}
}

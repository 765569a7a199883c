package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bdds/bdds/internal/dataset"
)

// planAdapter 是一个只有展开逻辑的假适配器，路径派生由测试注入。
type planAdapter struct {
	plans  []dataset.Plan
	derive func(id dataset.Identifier) (string, error)
}

func (a *planAdapter) Metadata() dataset.Metadata { return dataset.Metadata{Key: "plantest"} }

func (a *planAdapter) Plan(sel dataset.Selection) ([]dataset.Plan, error) { return a.plans, nil }

func (a *planAdapter) DerivePath(id dataset.Identifier) (string, error) { return a.derive(id) }

func (a *planAdapter) Install(ctx context.Context, rel string) error { return nil }

func (a *planAdapter) Parse(path string) (interface{}, error) { return nil, nil }

func (a *planAdapter) RemoteFiles() []dataset.RemoteFile { return nil }

func joinFields(id dataset.Identifier) (string, error) {
	parts := make([]string, 0, id.Len())
	for _, f := range id.Fields() {
		parts = append(parts, f.Value)
	}
	return strings.Join(parts, "/"), nil
}

func TestExpandOrdering(t *testing.T) {
	axes := []dataset.Axis{
		{Name: "mode", Values: []string{"decoded"}},
		{Name: "subject", Values: []string{"S1", "S2"}},
		{Name: "layer", Values: []string{"conv1", "conv2", "fc8"}},
	}

	ids := Expand(axes)
	if len(ids) != 6 {
		t.Fatalf("unexpected expansion size: %d", len(ids))
	}

	// 第一根轴变化最慢，最后一根轴变化最快。
	expected := []string{
		"mode=decoded/subject=S1/layer=conv1",
		"mode=decoded/subject=S1/layer=conv2",
		"mode=decoded/subject=S1/layer=fc8",
		"mode=decoded/subject=S2/layer=conv1",
		"mode=decoded/subject=S2/layer=conv2",
		"mode=decoded/subject=S2/layer=fc8",
	}
	for i, id := range ids {
		if id.String() != expected[i] {
			t.Fatalf("position %d: expected %s got %s", i, expected[i], id)
		}
	}
}

func TestExpandDeterministic(t *testing.T) {
	axes := []dataset.Axis{
		{Name: "a", Values: []string{"1", "2"}},
		{Name: "b", Values: []string{"x", "y", "z"}},
	}

	first := Expand(axes)
	second := Expand(axes)
	if len(first) != len(second) {
		t.Fatalf("expansion size not stable: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("expansion order not stable at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestExpandEmpty(t *testing.T) {
	if ids := Expand(nil); ids != nil {
		t.Fatalf("expected nil for empty axes, got %v", ids)
	}
	if ids := Expand([]dataset.Axis{{Name: "a", Values: nil}}); ids != nil {
		t.Fatalf("expected nil for empty axis values, got %v", ids)
	}
}

func TestItemsConcatenatesGroups(t *testing.T) {
	adapter := &planAdapter{
		plans: []dataset.Plan{
			{Axes: []dataset.Axis{
				{Name: "net", Values: []string{"AlexNet"}},
				{Name: "layer", Values: []string{"conv1", "conv2"}},
			}},
			{Axes: []dataset.Axis{
				{Name: "net", Values: []string{"VGG19"}},
				{Name: "layer", Values: []string{"conv1_1"}},
			}},
		},
		derive: joinFields,
	}

	items, err := Items(adapter, dataset.Selection{})
	if err != nil {
		t.Fatalf("items error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("unexpected item count: %d", len(items))
	}
	if items[0].RelPath != "AlexNet/conv1" || items[2].RelPath != "VGG19/conv1_1" {
		t.Fatalf("unexpected group order: %v", items)
	}
}

func TestItemsRejectsDuplicatePaths(t *testing.T) {
	adapter := &planAdapter{
		plans: []dataset.Plan{
			{Axes: []dataset.Axis{{Name: "subject", Values: []string{"S1", "S2"}}}},
		},
		derive: func(id dataset.Identifier) (string, error) { return "same.mat", nil },
	}

	_, err := Items(adapter, dataset.Selection{})
	if err == nil || !strings.Contains(err.Error(), "duplicate relative path") {
		t.Fatalf("expected duplicate path error, got %v", err)
	}
}

func TestItemsPropagatesDeriveError(t *testing.T) {
	boom := errors.New("boom")
	adapter := &planAdapter{
		plans: []dataset.Plan{
			{Axes: []dataset.Axis{{Name: "subject", Values: []string{"S1"}}}},
		},
		derive: func(id dataset.Identifier) (string, error) { return "", boom },
	}

	_, err := Items(adapter, dataset.Selection{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected derive error to propagate, got %v", err)
	}
}

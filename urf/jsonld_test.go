package urf

import (
	"context"
	"testing"
)

func TestExportJSONLDExpanded(t *testing.T) {
	_, proc := parseDoc(t, `|Example#1|*Person:name="Ada",friend=|Example#2|;, |Example#2|*Person:name="Bea";`)

	result, err := ExportJSONLD(context.Background(), proc.Result(), JSONLDOptions{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	nodes, ok := result.([]interface{})
	if !ok || len(nodes) != 2 {
		t.Fatalf("expanded result = %#v", result)
	}

	first, ok := nodes[0].(map[string]interface{})
	if !ok {
		t.Fatalf("node = %#v", nodes[0])
	}
	if first["@id"] != "https://urf.name/Example#1" {
		t.Fatalf("@id = %v", first["@id"])
	}
	types, ok := first["@type"].([]interface{})
	if !ok || len(types) != 1 || types[0] != "https://urf.name/Person" {
		t.Fatalf("@type = %v", first["@type"])
	}

	name, ok := first["https://urf.name/name"].([]interface{})
	if !ok || len(name) != 1 {
		t.Fatalf("name = %#v", first["https://urf.name/name"])
	}
	if name[0].(map[string]interface{})["@value"] != "Ada" {
		t.Fatalf("name value = %#v", name[0])
	}

	friend, ok := first["https://urf.name/friend"].([]interface{})
	if !ok || len(friend) != 1 {
		t.Fatalf("friend = %#v", first["https://urf.name/friend"])
	}
	if friend[0].(map[string]interface{})["@id"] != "https://urf.name/Example#2" {
		t.Fatalf("friend reference = %#v", friend[0])
	}
}

func TestExportJSONLDBlankNodes(t *testing.T) {
	_, proc := parseDoc(t, `*Person:pet=*Animal:name="Rex";;`)

	result, err := ExportJSONLD(context.Background(), proc.Result(), JSONLDOptions{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	nodes := result.([]interface{})
	if len(nodes) != 2 {
		t.Fatalf("%d nodes", len(nodes))
	}
	person := nodes[0].(map[string]interface{})
	pet := person["https://urf.name/pet"].([]interface{})
	ref := pet[0].(map[string]interface{})["@id"].(string)
	if ref == "" || ref[0] != '_' {
		t.Fatalf("pet reference = %q", ref)
	}
}

func TestExportJSONLDCompacted(t *testing.T) {
	_, proc := parseDoc(t, `|Example#1|*:name="Ada";`)

	opts := JSONLDOptions{
		CompactContext: map[string]interface{}{
			"name": "https://urf.name/name",
		},
		CompactArrays: true,
	}
	result, err := ExportJSONLD(context.Background(), proc.Result(), opts)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	compacted, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("compacted result = %#v", result)
	}
	if compacted["name"] != "Ada" {
		t.Fatalf("name = %#v", compacted["name"])
	}
}

func TestExportJSONLDCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, proc := parseDoc(t, "*")
	if _, err := ExportJSONLD(ctx, proc.Result(), JSONLDOptions{}); err == nil {
		t.Fatal("expected context error")
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promoadmin/internal/presentation"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func metaDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "promotion.yaml"), []byte(`
collections:
  - entity: Offer
    field: targetedCustomers
    metadata:
      addType: lookup
      order: 1
  - entity: Offer
    field: drafts
    metadata:
      addType: persist
`), 0o644))
	return dir
}

func TestDescribeTable(t *testing.T) {
	out, err := run(t, "describe", "Offer", "--meta", metaDir(t), "--overrides", "")
	require.NoError(t, err)
	assert.Contains(t, out, "ENTITY")
	assert.Contains(t, out, "targetedCustomersAdvancedCollectionDS")
	assert.Contains(t, out, "draftsAdvancedCollectionDS")
}

func TestDescribeJSON(t *testing.T) {
	out, err := run(t, "describe", "--meta", metaDir(t), "--overrides", "", "--json")
	require.NoError(t, err)
	var ds []presentation.CollectionDescriptor
	require.NoError(t, json.Unmarshal([]byte(out), &ds))
	require.Len(t, ds, 2)
	assert.Equal(t, "targetedCustomers", ds[0].Field)
}

func TestLintCommand(t *testing.T) {
	out, err := run(t, "lint", "--meta", metaDir(t), "--overrides", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Offer.drafts: [many_to_field_missing]")
}

func TestDDLCommand(t *testing.T) {
	out, err := run(t, "ddl", "--unique-links", "--foreign-keys", "--on-delete", "cascade")
	require.NoError(t, err)
	assert.Contains(t, out, "create table if not exists OFFER_CUSTOMER")
	assert.Contains(t, out, "offer_customer_pair_uq")
	assert.Contains(t, out, "on delete CASCADE")
}

func TestDescribeMissingDir(t *testing.T) {
	_, err := run(t, "describe", "--meta", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

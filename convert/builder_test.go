package convert

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinterm/oncotree-fhir/oncotree"
)

const testTumorTypes = `[
	{"code":"TISSUE","name":"Tissue","level":0,"externalReferences":{}},
	{"code":"BRAIN","name":"CNS/Brain","level":1,"color":"Gray","parent":"TISSUE","externalReferences":{"NCI":["C12439"],"UMLS":["C0006104"]}}
]`

func catalogForTest() *oncotree.VersionCatalog {
	return oncotree.NewVersionCatalog([]oncotree.Version{
		{APIIdentifier: "oncotree_latest_stable", ReleaseDate: "2021-11-02", Visible: true, Description: "latest stable"},
		{APIIdentifier: "oncotree_2021_11_01", ReleaseDate: "2021-11-01", Visible: true, Description: "Nov 2021"},
	})
}

// newTestBuilder serves the given tumorTypes payload and returns a builder
// wired to it.
func newTestBuilder(t *testing.T, payload string) *DocumentBuilder {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tumorTypes", r.URL.Path)
		w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)

	client := oncotree.NewClient(server.URL, zerolog.Nop())
	config := NewConfig("http://oncotree.mskcc.org/fhir/CodeSystem", "http://oncotree.mskcc.org/fhir/ValueSet")
	return NewDocumentBuilder(client, catalogForTest(), config, zerolog.Nop())
}

func TestBuildDatedVersion(t *testing.T) {
	builder := newTestBuilder(t, testTumorTypes)

	codeSystem, _, err := builder.Build("oncotree_2021_11_01")
	require.NoError(t, err)

	assert.Equal(t, "CodeSystem", codeSystem.ResourceType)
	assert.Equal(t, "20211101", *codeSystem.Version)
	assert.Equal(t, "20211101", *codeSystem.Id)
	assert.Equal(t, "http://oncotree.mskcc.org/fhir/CodeSystem", *codeSystem.Url)
	assert.Equal(t, "http://oncotree.mskcc.org/fhir/ValueSet", *codeSystem.ValueSet)
	assert.Equal(t, "oncotree", *codeSystem.Name)
	assert.Equal(t, "OncoTree", *codeSystem.Title)
	assert.Equal(t, "2021-11-01", *codeSystem.Date)
	assert.Equal(t, "draft", codeSystem.Status)
	assert.Equal(t, "complete", codeSystem.Content)
	assert.Equal(t, "is-a", *codeSystem.HierarchyMeaning)

	require.Len(t, codeSystem.Property, 4)
	assert.Equal(t, "color", codeSystem.Property[0].Code)
	assert.Equal(t, "level", codeSystem.Property[1].Code)
	assert.Equal(t, "integer", codeSystem.Property[1].Type)
	assert.Equal(t, "umls", codeSystem.Property[2].Code)
	assert.Equal(t, "nci", codeSystem.Property[3].Code)

	// Concepts keep the order the endpoint returned them in.
	require.Len(t, codeSystem.Concept, 2)
	assert.Equal(t, "TISSUE", codeSystem.Concept[0].Code)
	assert.Equal(t, "BRAIN", codeSystem.Concept[1].Code)
}

func TestBuildSpecialVersion(t *testing.T) {
	builder := newTestBuilder(t, testTumorTypes)

	codeSystem, _, err := builder.Build("oncotree_latest_stable")
	require.NoError(t, err)

	assert.Equal(t, "oncotree-latest-stable", *codeSystem.Version)
	assert.Equal(t, "oncotree-latest-stable", *codeSystem.Id)
	assert.Equal(t, "http://oncotree.mskcc.org/fhir/CodeSystem/snapshot", *codeSystem.Url)
	assert.Equal(t, "http://oncotree.mskcc.org/fhir/ValueSet/snapshot", *codeSystem.ValueSet)
	assert.Equal(t, "oncotree-snapshot", *codeSystem.Name)
	assert.Equal(t, "OncoTree Snapshot", *codeSystem.Title)
	assert.Equal(t, "2021-11-02", *codeSystem.Date)
}

func TestNamingKeepsRollingAndDatedURLsApart(t *testing.T) {
	builder := newTestBuilder(t, testTumorTypes)

	special := builder.naming("oncotree_candidate_release")
	assert.Equal(t, "oncotree-candidate-release", special.Label)
	assert.Equal(t, "http://oncotree.mskcc.org/fhir/CodeSystem/snapshot", special.URL)

	legacy := builder.naming("oncotree_legacy_1.1")
	assert.Equal(t, "oncotree-legacy-1.1", legacy.Label)
	assert.Equal(t, "oncotree-legacy-1.1", legacy.ID)

	dated := builder.naming("oncotree_2021_11_01")
	assert.Equal(t, "20211101", dated.Label)
	assert.NotEqual(t, special.URL, dated.URL)
}

func TestBuildUnknownVersion(t *testing.T) {
	builder := newTestBuilder(t, testTumorTypes)

	_, _, err := builder.Build("oncotree_1999_01_01")
	assert.ErrorIs(t, err, oncotree.ErrVersionUnknown)
}

func TestBuildMissingLevelAbortsWholeVersion(t *testing.T) {
	builder := newTestBuilder(t, `[
		{"code":"TISSUE","name":"Tissue","level":0,"externalReferences":{}},
		{"code":"BROKEN","name":"Broken","externalReferences":{}}
	]`)

	codeSystem, _, err := builder.Build("oncotree_2021_11_01")
	assert.ErrorIs(t, err, ErrMissingLevel)
	assert.Nil(t, codeSystem)
}

func TestBuildIsIdempotent(t *testing.T) {
	builder := newTestBuilder(t, testTumorTypes)

	first, _, err := builder.Build("oncotree_2021_11_01")
	require.NoError(t, err)
	second, _, err := builder.Build("oncotree_2021_11_01")
	require.NoError(t, err)

	firstJSON, err := json.MarshalIndent(first, "", "  ")
	require.NoError(t, err)
	secondJSON, err := json.MarshalIndent(second, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

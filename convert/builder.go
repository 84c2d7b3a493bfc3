package convert

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/clinterm/oncotree-fhir/models/fhir"
	"github.com/clinterm/oncotree-fhir/oncotree"
	"github.com/clinterm/oncotree-fhir/util"
)

// DefaultSpecialVersions are the rolling Oncotree identifiers that always
// point at the current state of the tree rather than a fixed dated release.
var DefaultSpecialVersions = []string{
	"oncotree_latest_stable",
	"oncotree_candidate_release",
	"oncotree_development",
	"oncotree_legacy_1.1",
}

// Config carries the URL bases of the produced resources and the set of
// rolling version identifiers.
type Config struct {
	CanonicalBase   string
	ValueSetBase    string
	SpecialVersions []string
}

// NewConfig returns a Config with trailing slashes trimmed from the URL bases
// and the default special-version set applied when none is given.
func NewConfig(canonicalBase, valueSetBase string) Config {
	return Config{
		CanonicalBase:   strings.TrimSuffix(canonicalBase, "/"),
		ValueSetBase:    strings.TrimSuffix(valueSetBase, "/"),
		SpecialVersions: DefaultSpecialVersions,
	}
}

// naming is the derived identity of one converted version: the compact
// version label, the resource id, the canonical and value-set URLs and the
// name/title pair.
type naming struct {
	Label       string
	ID          string
	URL         string
	ValueSetURL string
	Name        string
	Title       string
}

// DocumentBuilder assembles CodeSystem resources for Oncotree versions. All
// version metadata is resolved against the catalog snapshot it was created
// with.
type DocumentBuilder struct {
	client  *oncotree.Client
	catalog *oncotree.VersionCatalog
	config  Config
	log     zerolog.Logger
}

// NewDocumentBuilder creates a builder bound to one client and one catalog
// snapshot.
func NewDocumentBuilder(client *oncotree.Client, catalog *oncotree.VersionCatalog, config Config, log zerolog.Logger) *DocumentBuilder {
	return &DocumentBuilder{
		client:  client,
		catalog: catalog,
		config:  config,
		log:     log,
	}
}

// naming derives the label, id, URLs and name/title for a version
// identifier. Rolling identifiers keep their full name (underscores turned
// into hyphens) and get a fixed "/snapshot" URL segment, so that no rolling
// identifier can collide with a dated release's URL. Dated identifiers are
// compacted by stripping the "oncotree_" prefix and removing the remaining
// underscores.
func (b *DocumentBuilder) naming(versionID string) naming {
	n := naming{
		URL:         b.config.CanonicalBase,
		ValueSetURL: b.config.ValueSetBase,
		Name:        "oncotree",
		Title:       "OncoTree",
	}

	if slices.Contains(b.config.SpecialVersions, versionID) {
		n.Label = strings.ReplaceAll(versionID, "_", "-")
		n.URL += "/snapshot"
		n.ValueSetURL += "/snapshot"
		n.Name = "oncotree-snapshot"
		n.Title = "OncoTree Snapshot"
	} else {
		n.Label = strings.ReplaceAll(strings.TrimPrefix(versionID, "oncotree_"), "_", "")
	}

	n.ID = strings.ReplaceAll(n.Label, "_", "-")
	return n
}

// propertyDefinitions is the fixed declaration list every produced document
// carries.
func propertyDefinitions() []fhir.CodeSystemProperty {
	return []fhir.CodeSystemProperty{
		{
			Code:        "color",
			Description: util.StringPtr("Color in the Oncotree Visualisation"),
			Type:        "string",
		},
		{
			Code:        "level",
			Description: util.StringPtr("Level in the Oncotree hierarchy"),
			Type:        "integer",
		},
		{
			Code:        "umls",
			Description: util.StringPtr("Linked UMLS concept"),
			Type:        "string",
		},
		{
			Code:        "nci",
			Description: util.StringPtr("Linked NCI concept"),
			Type:        "string",
		},
	}
}

// Build fetches every concept record of the version and assembles the
// CodeSystem resource. Concepts keep the order the endpoint returned them in.
// The raw concept payload is returned alongside for optional debug dumps. On
// any failure no document is returned.
func (b *DocumentBuilder) Build(versionID string) (*fhir.CodeSystem, []byte, error) {
	date, err := b.catalog.DateOf(versionID)
	if err != nil {
		return nil, nil, err
	}

	n := b.naming(versionID)
	b.log.Info().
		Str("version", n.Label).
		Str("released", date).
		Str("endpoint", b.client.TumorTypesEndpoint(versionID)).
		Msg("getting version")

	tumorTypes, raw, err := b.client.TumorTypes(versionID)
	if err != nil {
		return nil, nil, err
	}

	codeSystem := &fhir.CodeSystem{
		ResourceType:     "CodeSystem",
		Id:               util.StringPtr(n.ID),
		Url:              util.StringPtr(n.URL),
		ValueSet:         util.StringPtr(n.ValueSetURL),
		Status:           "draft",
		Content:          "complete",
		Name:             util.StringPtr(n.Name),
		Title:            util.StringPtr(n.Title),
		Version:          util.StringPtr(n.Label),
		Date:             util.StringPtr(date),
		HierarchyMeaning: util.StringPtr("is-a"),
		Property:         propertyDefinitions(),
	}

	b.log.Debug().Int("records", len(tumorTypes)).Msg("converting concepts")
	for _, tumorType := range tumorTypes {
		concept, err := MapConcept(tumorType)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to convert version %s: %w", versionID, err)
		}
		codeSystem.Concept = append(codeSystem.Concept, concept)
	}

	return codeSystem, raw, nil
}

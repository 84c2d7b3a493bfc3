package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clinterm/oncotree-fhir/models/fhir"
	"github.com/clinterm/oncotree-fhir/oncotree"
	"github.com/clinterm/oncotree-fhir/util"
)

// ErrMissingLevel marks a source record without the mandatory level field.
// Such a record aborts the conversion of its version; no partial document is
// written.
var ErrMissingLevel = errors.New("source concept has no level")

// MapConcept converts one Oncotree record into a CodeSystem concept. It is a
// pure function of its input. The property list always starts with "level";
// "color", "parent", "umls" and "nci" follow in that order, each only when
// the record carries a value for it. Multiple external references under one
// system are joined with ", " into a single property value.
func MapConcept(tumorType oncotree.TumorType) (fhir.CodeSystemConcept, error) {
	if tumorType.Level == nil {
		return fhir.CodeSystemConcept{}, fmt.Errorf("%w: %q", ErrMissingLevel, tumorType.Code)
	}

	concept := fhir.CodeSystemConcept{
		Code:    tumorType.Code,
		Display: util.StringPtr(tumorType.Name),
		Property: []fhir.CodeSystemConceptProperty{
			{Code: "level", ValueInteger: tumorType.Level},
		},
	}

	if tumorType.Color != nil {
		concept.Property = append(concept.Property, fhir.CodeSystemConceptProperty{
			Code:        "color",
			ValueString: tumorType.Color,
		})
	}

	if tumorType.Parent != nil {
		concept.Property = append(concept.Property, fhir.CodeSystemConceptProperty{
			Code:      "parent",
			ValueCode: tumorType.Parent,
		})
	}

	// At least one record, SRCCR, carries multiple UMLS and NCI references.
	if refs, ok := tumorType.ExternalReferences["UMLS"]; ok && len(refs) > 0 {
		concept.Property = append(concept.Property, fhir.CodeSystemConceptProperty{
			Code:        "umls",
			ValueString: util.StringPtr(strings.Join(refs, ", ")),
		})
	}
	if refs, ok := tumorType.ExternalReferences["NCI"]; ok && len(refs) > 0 {
		concept.Property = append(concept.Property, fhir.CodeSystemConceptProperty{
			Code:        "nci",
			ValueString: util.StringPtr(strings.Join(refs, ", ")),
		})
	}

	return concept, nil
}

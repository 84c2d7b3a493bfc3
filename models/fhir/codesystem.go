package fhir

import "encoding/json"

// CodeSystem models the subset of http://hl7.org/fhir/StructureDefinition/CodeSystem
// that an Oncotree conversion produces. Field order follows the serialized
// resource so that marshalled output is stable across runs.
type CodeSystem struct {
	ResourceType     string               `json:"resourceType"`
	Id               *string              `json:"id,omitempty"`
	Url              *string              `json:"url,omitempty"`
	ValueSet         *string              `json:"valueSet,omitempty"`
	Status           string               `json:"status"`
	Content          string               `json:"content"`
	Name             *string              `json:"name,omitempty"`
	Title            *string              `json:"title,omitempty"`
	Version          *string              `json:"version,omitempty"`
	Date             *string              `json:"date,omitempty"`
	HierarchyMeaning *string              `json:"hierarchyMeaning,omitempty"`
	Property         []CodeSystemProperty `json:"property,omitempty"`
	Concept          []CodeSystemConcept  `json:"concept,omitempty"`
}

// CodeSystemProperty declares a property that concepts in the code
// system may carry.
type CodeSystemProperty struct {
	Code        string  `json:"code"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type"`
}

// CodeSystemConcept is one concept in the code system.
type CodeSystemConcept struct {
	Code     string                      `json:"code"`
	Display  *string                     `json:"display,omitempty"`
	Property []CodeSystemConceptProperty `json:"property,omitempty"`
}

// CodeSystemConceptProperty is a typed property value on a concept. Exactly
// one of the Value* fields is set.
type CodeSystemConceptProperty struct {
	Code         string  `json:"code"`
	ValueCode    *string `json:"valueCode,omitempty"`
	ValueString  *string `json:"valueString,omitempty"`
	ValueInteger *int    `json:"valueInteger,omitempty"`
}

// UnmarshalCodeSystem parses a serialized CodeSystem resource.
func UnmarshalCodeSystem(b []byte) (CodeSystem, error) {
	var codeSystem CodeSystem
	if err := json.Unmarshal(b, &codeSystem); err != nil {
		return CodeSystem{}, err
	}
	return codeSystem, nil
}

// PropertyByCode returns the concept property with the given code, or nil if
// the concept does not carry it.
func (c CodeSystemConcept) PropertyByCode(code string) *CodeSystemConceptProperty {
	for i := range c.Property {
		if c.Property[i].Code == code {
			return &c.Property[i]
		}
	}
	return nil
}

package oncotree

// Version is one entry of the /versions listing of an Oncotree endpoint.
type Version struct {
	APIIdentifier string `json:"api_identifier"`
	ReleaseDate   string `json:"release_date"`
	Visible       bool   `json:"visible"`
	Description   string `json:"description"`
}

// TumorType is one concept record of the /tumorTypes listing. Level is a
// pointer so that a record without a level can be told apart from a record at
// level 0; the conversion treats a missing level as malformed input.
type TumorType struct {
	Code               string              `json:"code"`
	Name               string              `json:"name"`
	Level              *int                `json:"level"`
	Color              *string             `json:"color"`
	Parent             *string             `json:"parent"`
	ExternalReferences map[string][]string `json:"externalReferences"`
}

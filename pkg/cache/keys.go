package cache

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey identifies a built and laid out tree.
	LayoutKey(dataHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every input besides the family data that changes a
// layout.
type LayoutKeyOpts struct {
	Focus           string  `json:"focus"`
	AncestorDepth   int     `json:"anc"`
	DescendantDepth int     `json:"desc"`
	MaxNodes        int     `json:"max_nodes"`
	NodeWidth       float64 `json:"w"`
	NodeHeight      float64 `json:"h"`
	Spacing         float64 `json:"sp"`
}

// ArtifactKeyOpts holds every input besides the layout that changes a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Palette     string  `json:"palette"`
	Selected    string  `json:"selected,omitempty"`
	Title       string  `json:"title,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
	SpouseLinks bool    `json:"spouse_links"`
	Badges      bool    `json:"badges"`
	Scale       float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces keys of the form "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", dataHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}

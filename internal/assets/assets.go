package assets

// DefaultStyleName is the built-in style that reproduces a thin black engraving pass.
const DefaultStyleName = "laser"

// styleExt is the file extension of style templates.
const styleExt = ".css"

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a style by name using the embedded loader.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// ListStyles returns the embedded style names.
func ListStyles() ([]string, error) {
	return defaultLoader.ListStyles()
}

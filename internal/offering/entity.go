package offering

// Service is one of the studio's service offerings.
type Service struct {
	ID              string   `json:"id" yaml:"id"`
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description" yaml:"description"`
	FullDescription string   `json:"fullDescription" yaml:"fullDescription"`
	Features        []string `json:"features" yaml:"features"`
	Technologies    []string `json:"technologies" yaml:"technologies"`
	Timeline        string   `json:"timeline" yaml:"timeline"`
	StartingPrice   string   `json:"startingPrice" yaml:"startingPrice"`
}

package project

const (
	DefaultTitle    = "Untitled Project"
	DefaultCategory = "Web Development"
	DefaultStatus   = "Completed"
	DefaultFilename = "image"

	// FeaturedLimit caps how many featured projects are shown.
	FeaturedLimit = 6
	// ShortDescriptionLength is how many characters of the description are
	// kept when no short description was authored.
	ShortDescriptionLength = 150
	Ellipsis               = "..."
)

type Image struct {
	URL      string `json:"url" yaml:"url"`
	Filename string `json:"filename" yaml:"filename"`
}

// Project is one entry of the studio's portfolio in canonical form.
type Project struct {
	ID               string   `json:"id" yaml:"id"`
	Title            string   `json:"title" yaml:"title"`
	Description      string   `json:"description" yaml:"description"`
	ShortDescription string   `json:"shortDescription" yaml:"shortDescription"`
	Technologies     []string `json:"technologies" yaml:"technologies"`
	Category         string   `json:"category" yaml:"category"`
	Status           string   `json:"status" yaml:"status"`
	ClientName       string   `json:"clientName" yaml:"clientName"`
	ProjectURL       string   `json:"projectUrl" yaml:"projectUrl"`
	GitHubURL        string   `json:"githubUrl" yaml:"githubUrl"`
	ImageURL         string   `json:"imageUrl" yaml:"imageUrl"`
	Images           []Image  `json:"images" yaml:"images"`
	// StartDate and EndDate are YYYY-MM-DD. A nil EndDate means ongoing.
	StartDate   *string  `json:"startDate" yaml:"startDate"`
	EndDate     *string  `json:"endDate" yaml:"endDate"`
	Featured    bool     `json:"featured" yaml:"featured"`
	Tags        []string `json:"tags" yaml:"tags"`
	CreatedTime string   `json:"createdTime" yaml:"createdTime"`
}

// Ongoing reports whether the project has no end date yet.
func (p *Project) Ongoing() bool {
	return p.EndDate == nil
}

package types

import "time"

// Per-user CV limits. The storage layer does not enforce them; callers check
// Count before adding.
const (
	MaxUploadedCVs = 3
	MaxCreatedCVs  = 3
)

// CV is the metadata record in cvs.json. IsCreated distinguishes CVs built
// in the app from uploaded files; FilePath points at the stored binary.
type CV struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	FileName         string    `json:"fileName"`
	OriginalFileName string    `json:"originalFileName"`
	FileType         string    `json:"fileType"`
	FileSize         int64     `json:"fileSize"`
	FilePath         string    `json:"filePath"`
	CVName           string    `json:"cvName"`
	IsCreated        bool      `json:"isCreated"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CVContent is the per-user structured CV in cvData.json.
type CVContent struct {
	UserID          string            `json:"userId"`
	PersonalDetails map[string]string `json:"personalDetails"`
	Content         CVBody            `json:"cvContent"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// CVBody holds the editable sections of a CV.
type CVBody struct {
	ProfessionalSummary string       `json:"professionalSummary"`
	Experience          []Experience `json:"experience"`
	Education           []Education  `json:"education"`
	Skills              []string     `json:"skills"`
}

// Experience is one work history entry.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one education entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Grade       string `json:"grade,omitempty"`
}

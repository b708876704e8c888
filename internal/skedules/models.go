package skedules

// SocialLink is a social media link attached to a skedule.
type SocialLink struct {
	Network   string `json:"network"`
	URL       string `json:"url"`
	SkeduleID string `json:"skeduleId,omitempty"`
	ID        string `json:"id,omitempty"`
}

// Event is a single scheduled item inside a skedule.
type Event struct {
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate,omitempty"` // ISO 8601
	EndDate     string `json:"endDate,omitempty"`   // ISO 8601
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	Location    string `json:"location,omitempty"`
	IsVirtual   bool   `json:"isVirtual,omitempty"`
	SkeduleID   string `json:"skeduleId,omitempty"`
	ID          string `json:"id,omitempty"`
}

// Skedule is the main SkedulesLive entity: a published schedule of events.
type Skedule struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Location    string       `json:"location,omitempty"`
	IsVirtual   bool         `json:"isVirtual"`
	IsPublic    bool         `json:"isPublic"`
	Type        string       `json:"type,omitempty"` // e.g. BUSINESS
	Phone       string       `json:"phone,omitempty"`
	Image       string       `json:"image,omitempty"`
	Thumbnail   string       `json:"thumbnail,omitempty"`
	Lat         *float64     `json:"lat,omitempty"`
	Lng         *float64     `json:"lng,omitempty"`
	Categories  []string     `json:"categories,omitempty"`
	SocialLinks []SocialLink `json:"socialLinks,omitempty"`
	Events      []Event      `json:"events,omitempty"`
	ID          string       `json:"id,omitempty"`
}

// User is a SkedulesLive account.
type User struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	Name      string `json:"name,omitempty"`
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// UserProfile is the editable profile of the authenticated user.
type UserProfile struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Title   string `json:"title,omitempty"`
	Bio     string `json:"bio,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
	ID      string `json:"id,omitempty"`
}

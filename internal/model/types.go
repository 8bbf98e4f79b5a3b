package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// prices and revenue are JSON numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true
}

// User represents a registered account. Secrets are stored hashed.
type User struct {
	ID                   uuid.UUID
	Email                string
	Name                 string
	PasswordHash         string
	Tokens               int64
	TwoFactorEnabled     bool
	OneTimeCodeHash      *string
	OneTimeCodeExpiresAt *time.Time
	OneTimeCodeAttempts  int
	ResetTokenHash       *string
	ResetTokenExpiresAt  *time.Time
	CreatedAt            time.Time
}

// PublicUser is the account as returned to its owner, without credentials.
type PublicUser struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Tokens           int64     `json:"tokens"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Public strips secrets from u.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Tokens:           u.Tokens,
		TwoFactorEnabled: u.TwoFactorEnabled,
		CreatedAt:        u.CreatedAt,
	}
}

// Colors are the accent colors of a profile page.
type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// ModelProfile is a companion profile shown to end users.
type ModelProfile struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Age               int       `json:"age"`
	Nationality       string    `json:"nationality"`
	CoverPhoto        string    `json:"coverPhoto"`
	VideoURL          *string   `json:"videoUrl"`
	Tags              []string  `json:"tags"`
	Slug              string    `json:"slug"`
	ShortBio          string    `json:"shortBio"`
	LongBio           string    `json:"longBio"`
	ConversationStyle string    `json:"conversationStyle"`
	Interests         []string  `json:"interests"`
	Gallery           []string  `json:"gallery"`
	Colors            Colors    `json:"colors"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ProfilePatch carries a partial profile update; nil fields are left untouched.
type ProfilePatch struct {
	Name              *string
	Age               *int
	Nationality       *string
	CoverPhoto        *string
	VideoURL          *string
	Tags              *[]string
	ShortBio          *string
	LongBio           *string
	ConversationStyle *string
	Interests         *[]string
	Gallery           *[]string
	Colors            *Colors
}

// Apply overwrites the fields present in the patch.
func (p ProfilePatch) Apply(m *ModelProfile) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Age != nil {
		m.Age = *p.Age
	}
	if p.Nationality != nil {
		m.Nationality = *p.Nationality
	}
	if p.CoverPhoto != nil {
		m.CoverPhoto = *p.CoverPhoto
	}
	if p.VideoURL != nil {
		if *p.VideoURL == "" {
			m.VideoURL = nil
		} else {
			v := *p.VideoURL
			m.VideoURL = &v
		}
	}
	if p.Tags != nil {
		m.Tags = *p.Tags
	}
	if p.ShortBio != nil {
		m.ShortBio = *p.ShortBio
	}
	if p.LongBio != nil {
		m.LongBio = *p.LongBio
	}
	if p.ConversationStyle != nil {
		m.ConversationStyle = *p.ConversationStyle
	}
	if p.Interests != nil {
		m.Interests = *p.Interests
	}
	if p.Gallery != nil {
		m.Gallery = *p.Gallery
	}
	if p.Colors != nil {
		m.Colors = *p.Colors
	}
}

// LegalType is the closed set of legal pages.
type LegalType string

const (
	LegalTerms   LegalType = "terms"
	LegalPrivacy LegalType = "privacy"
)

// Valid reports whether t is a known legal page type.
func (t LegalType) Valid() bool {
	return t == LegalTerms || t == LegalPrivacy
}

// LegalPage is the editable text of a legal page.
type LegalPage struct {
	ID        string     `json:"id"`
	Type      LegalType  `json:"type"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ExternalLinks is the singleton of social/contact URLs.
type ExternalLinks struct {
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	TikTok    string `json:"tiktok"`
	WhatsApp  string `json:"whatsapp"`
}

// Metrics is the singleton of dashboard counters.
type Metrics struct {
	ActiveUsers    int64           `json:"activeUsers"`
	MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
	TokensSold     int64           `json:"tokensSold"`
	NewUsers       int64           `json:"newUsers"`
}

// TokenPackage is a purchasable bundle of tokens.
type TokenPackage struct {
	ID      string          `json:"id"`
	Tokens  int64           `json:"tokens"`
	Price   decimal.Decimal `json:"price"`
	Bonus   int64           `json:"bonus"`
	Popular bool            `json:"popular"`
}

// TotalTokens is what a purchase credits: quantity plus bonus.
func (p TokenPackage) TotalTokens() int64 {
	return p.Tokens + p.Bonus
}

// CarouselSlide is one slide of the home page hero carousel.
type CarouselSlide struct {
	ID           string `json:"id"`
	ImageURL     string `json:"imageUrl"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	TextPosition string `json:"textPosition"`
}

// MediaItem is an image offered in a profile's media gallery.
type MediaItem struct {
	ID        string  `json:"id"`
	ModelSlug string  `json:"-"`
	ImageURL  string  `json:"imageUrl"`
	VideoURL  *string `json:"videoUrl"`
	Title     string  `json:"title"`
	TokenCost int     `json:"tokenCost"`
}

// ChatRole is the sender of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry of a conversation transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	VideoURL  string    `json:"videoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

package models

// Payload represents a Plex webhook payload, delivered as the "payload"
// form field of a multipart POST
type Payload struct {
	Event    string    `json:"event"`
	User     bool      `json:"user"`
	Owner    bool      `json:"owner"`
	Account  *Account  `json:"Account,omitempty"`
	Server   *Server   `json:"Server,omitempty"`
	Player   *Player   `json:"Player,omitempty"`
	Metadata *Metadata `json:"Metadata,omitempty"`
}

// Account represents the Plex account that triggered the webhook
type Account struct {
	ID    int    `json:"id"`
	Thumb string `json:"thumb"`
	Title string `json:"title"`
}

// Server carries details about the Plex server that emitted the hook
type Server struct {
	Title string `json:"title"`
	UUID  string `json:"uuid"`
}

// Player describes the playback client responsible for the event
type Player struct {
	Local         bool   `json:"local"`
	PublicAddress string `json:"publicAddress"`
	Title         string `json:"title"`
	UUID          string `json:"uuid"`
}

// Metadata contains the played media item. Guid stays nil when the
// collection is absent from the payload, which is distinct from an empty
// collection.
type Metadata struct {
	Guid             []Guid `json:"Guid,omitempty"`
	Type             string `json:"type"`
	Title            string `json:"title"`
	GrandparentTitle string `json:"grandparentTitle"`
	Index            int    `json:"index"`
	ParentIndex      int    `json:"parentIndex"`
}

// Guid is one external identifier attached to a media item
type Guid struct {
	ID string `json:"id"`
}

// AccountTitle returns the Plex account title, or "" when absent
func (p *Payload) AccountTitle() string {
	if p.Account == nil {
		return ""
	}
	return p.Account.Title
}

// MediaType returns the metadata type, or "" when absent
func (p *Payload) MediaType() string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata.Type
}

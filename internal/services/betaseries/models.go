package betaseries

// Episode is a TV episode as known to BetaSeries, including the calling
// member's seen flag. Fetched fresh on every scrobble attempt; the remote
// service is authoritative and records are never cached.
type Episode struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
	User    struct {
		Seen bool `json:"seen"`
	} `json:"user"`
}

// Movie is a movie as known to BetaSeries, including the calling member's
// watch status
type Movie struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	User  struct {
		Status MovieStatus `json:"status"`
	} `json:"user"`
}

// MovieStatus is the BetaSeries movie watch status enum
type MovieStatus int

const (
	MovieStatusNone   MovieStatus = -1
	MovieStatusToSee  MovieStatus = 0
	MovieStatusSeen   MovieStatus = 1
	MovieStatusHidden MovieStatus = 2
)

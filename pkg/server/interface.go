/*
Package server implements msgpack IPC for décima analysis and rhyme suggestions.

The server reads a stream of msgpack maps from stdin and writes one msgpack
map per request to stdout. Logs go to stderr. Every request carries an id
and an action; the response echoes the id.

# IPC

On start the server writes a ready message:

	{"status": "ready"}

Analyze a whole composition while the user edits slot 3:

	{"id": "a1", "action": "analyze", "v": ["quiero volar muy alto", ...], "a": 3}

The response holds one entry per slot plus the group suggestions:

	{"id": "a1", "ls": [{"i": 0, "g": "A", "n": 7, "st": "short", ...}], "gr": {"A": ["canto", ...]}, "lw": [...], "x": 1, "t": 85}

A scheme other than the configured one can be sent in "sc", e.g. "abBAAcCdDC".

Smaller actions:

	{"id": "c1", "action": "count", "t": "la luz de tu corazón"}
	{"id": "r1", "action": "rhymes", "w": "amor", "l": 5}
	{"id": "k1", "action": "classify", "w": "canción"}
	{"id": "l1", "action": "last_word", "v": [...], "a": 4, "sc": "abBAAcCdDC"}
	{"id": "p1", "action": "apply", "t": "quiero volar ", "w": "alto"}

Saved compositions:

	{"id": "s1", "action": "store.list"}
	{"id": "s2", "action": "store.create", "title": "Mar", "v": [...], "desc": "olas"}
	{"id": "s3", "action": "store.get", "cid": "…"}
	{"id": "s4", "action": "store.update", "cid": "…", "v": [...]}
	{"id": "s5", "action": "store.delete", "cid": "…"}

Failures never stop the server; they are answered with an error message:

	{"id": "r1", "e": "unknown action: rhyme", "c": 400}

health and stats report liveness, request counts and count cache usage.
*/
package server

// Actions understood by the server.
const (
	ActionAnalyze     = "analyze"
	ActionCount       = "count"
	ActionRhymes      = "rhymes"
	ActionLastWord    = "last_word"
	ActionClassify    = "classify"
	ActionApply       = "apply"
	ActionHealth      = "health"
	ActionStats       = "stats"
	ActionStoreList   = "store.list"
	ActionStoreGet    = "store.get"
	ActionStoreCreate = "store.create"
	ActionStoreUpdate = "store.update"
	ActionStoreDelete = "store.delete"
)

// Request is the envelope of every message. Fields not used by an action are ignored.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"action"`
	Verses []string `msgpack:"v,omitempty"`
	Text   string   `msgpack:"t,omitempty"`
	Word   string   `msgpack:"w,omitempty"`
	Limit  int      `msgpack:"l,omitempty"`
	Active *int     `msgpack:"a,omitempty"`
	Scheme string   `msgpack:"sc,omitempty"`

	CompositionID string `msgpack:"cid,omitempty"`
	Title         string `msgpack:"title,omitempty"`
	Description   string `msgpack:"desc,omitempty"`
}

// LineResult is one analysed slot
type LineResult struct {
	Index     int      `msgpack:"i"`
	Letter    string   `msgpack:"g"`
	Syllables int      `msgpack:"n"`
	Status    string   `msgpack:"st"`
	Reference bool     `msgpack:"ref"`
	Rhymes    []string `msgpack:"r"`
}

// LinkResult joins two slots of a rhyme group
type LinkResult struct {
	Group  string `msgpack:"g"`
	From   int    `msgpack:"f"`
	To     int    `msgpack:"to"`
	Active bool   `msgpack:"on"`
}

// AnalyzeResponse - whole composition analysis
type AnalyzeResponse struct {
	ID        string              `msgpack:"id"`
	Lines     []LineResult        `msgpack:"ls"`
	Groups    map[string][]string `msgpack:"gr"`
	Active    int                 `msgpack:"a"`
	LastWord  []string            `msgpack:"lw"`
	Links     []LinkResult        `msgpack:"lk"`
	Exact     int                 `msgpack:"x"`
	Complete  bool                `msgpack:"ok"`
	TimeTaken int64               `msgpack:"t"`
}

// CountResponse - syllable counts of Text or of each verse
type CountResponse struct {
	ID     string `msgpack:"id"`
	Counts []int  `msgpack:"n"`
}

// Suggestion - a rhyme candidate with its rank
type Suggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// SuggestionResponse - rhymes and last_word results
type SuggestionResponse struct {
	ID          string       `msgpack:"id"`
	Ending      string       `msgpack:"k,omitempty"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"`
}

// ClassifyResponse - ending key of a word
type ClassifyResponse struct {
	ID     string `msgpack:"id"`
	Ending string `msgpack:"k"`
}

// ApplyResponse - verse with the suggestion applied
type ApplyResponse struct {
	ID    string `msgpack:"id"`
	Verse string `msgpack:"v"`
}

// CompositionResult - a saved composition on the wire
type CompositionResult struct {
	ID          string   `msgpack:"cid"`
	Title       string   `msgpack:"title"`
	Verses      []string `msgpack:"v"`
	Description string   `msgpack:"desc"`
	CreatedAt   int64    `msgpack:"created"`
	UpdatedAt   int64    `msgpack:"updated"`
}

// StoreResponse - store operation response
type StoreResponse struct {
	ID           string              `msgpack:"id"`
	Status       string              `msgpack:"status"`
	Composition  *CompositionResult  `msgpack:"d,omitempty"`
	Compositions []CompositionResult `msgpack:"ls,omitempty"`
	Count        int                 `msgpack:"c"`
}

// StatusResponse - health and stats
type StatusResponse struct {
	ID       string         `msgpack:"id"`
	Status   string         `msgpack:"status"`
	Requests int64          `msgpack:"requests,omitempty"`
	Errors   int64          `msgpack:"errors,omitempty"`
	Cache    map[string]int `msgpack:"cache,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

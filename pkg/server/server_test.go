package server

import (
	"bytes"
	"testing"

	"github.com/bastiangx/decimaserve/pkg/decima"
	"github.com/bastiangx/decimaserve/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func intPtr(i int) *int { return &i }

func sampleVerses() []string {
	return []string{
		"quiero volar muy alto",
		"y en la noche cantar",
		"", "quiero llegar hasta el canto", "",
		"la luz de tu corazón",
		"", "", "", "",
	}
}

func newTestServer(withStore bool) *Server {
	engine := decima.New(decima.DefaultForm(), nil, decima.WithCountCache(decima.NewCountCache(32)))
	var st store.Store
	if withStore {
		st = store.New(store.NewMemoryKV(), "")
	}
	return NewServer(engine, st)
}

// roundTrip sends msgs through Serve and returns a decoder positioned after
// the ready message.
func roundTrip(t *testing.T, s *Server, msgs ...any) *msgpack.Decoder {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, m := range msgs {
		require.NoError(t, enc.Encode(m))
	}

	var out bytes.Buffer
	require.NoError(t, s.Serve(&in, &out))

	dec := msgpack.NewDecoder(&out)
	var ready map[string]string
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, "ready", ready["status"])
	return dec
}

func TestServeEmptyInput(t *testing.T) {
	roundTrip(t, newTestServer(false))
}

func TestAnalyze(t *testing.T) {
	dec := roundTrip(t, newTestServer(false), Request{
		ID: "a1", Action: ActionAnalyze, Verses: sampleVerses(), Active: intPtr(3), Scheme: "abBAAcCdDC",
	})

	var resp AnalyzeResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "a1", resp.ID)
	require.Len(t, resp.Lines, 10)
	assert.Equal(t, "a", resp.Lines[0].Letter)
	assert.Equal(t, 7, resp.Lines[0].Syllables)
	assert.Equal(t, "short", resp.Lines[0].Status)
	assert.Equal(t, "exact", resp.Lines[3].Status)
	assert.True(t, resp.Lines[0].Reference)
	assert.Equal(t, 1, resp.Exact)
	assert.False(t, resp.Complete)
	assert.Equal(t, 3, resp.Active)
	require.NotEmpty(t, resp.LastWord)
	assert.Equal(t, "canto", resp.LastWord[0])
	assert.Contains(t, resp.Groups, "A")
	assert.Len(t, resp.Links, 8)
}

func TestAnalyzeBadScheme(t *testing.T) {
	dec := roundTrip(t, newTestServer(false), Request{ID: "a2", Action: ActionAnalyze, Scheme: "ABBA"})

	var resp ErrorResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "a2", resp.ID)
	assert.Equal(t, codeBadRequest, resp.Code)
	assert.Contains(t, resp.Error, "invalid scheme")
}

func TestSmallActions(t *testing.T) {
	dec := roundTrip(t, newTestServer(false),
		Request{ID: "c1", Action: ActionCount, Text: "casa"},
		Request{ID: "c2", Action: ActionCount, Verses: []string{"mano al", "", "quiero volar muy alto"}},
		Request{ID: "r1", Action: ActionRhymes, Word: "amor", Limit: 3},
		Request{ID: "k1", Action: ActionClassify, Word: "canción"},
		Request{ID: "p1", Action: ActionApply, Text: "quiero volar ", Word: "alto"},
		Request{ID: "l1", Action: ActionLastWord, Verses: sampleVerses(), Active: intPtr(4), Scheme: "abBAAcCdDC"},
	)

	var count CountResponse
	require.NoError(t, dec.Decode(&count))
	assert.Equal(t, []int{2}, count.Counts)
	require.NoError(t, dec.Decode(&count))
	assert.Equal(t, []int{2, 0, 7}, count.Counts)

	var rhymes SuggestionResponse
	require.NoError(t, dec.Decode(&rhymes))
	assert.Equal(t, "or", rhymes.Ending)
	assert.Equal(t, []Suggestion{{"dolor", 1}, {"color", 2}, {"valor", 3}}, rhymes.Suggestions)
	assert.Equal(t, 3, rhymes.Count)

	var classify ClassifyResponse
	require.NoError(t, dec.Decode(&classify))
	assert.Equal(t, "ón", classify.Ending)

	var apply ApplyResponse
	require.NoError(t, dec.Decode(&apply))
	assert.Equal(t, "quiero volar alto", apply.Verse)

	var last SuggestionResponse
	require.NoError(t, dec.Decode(&last))
	assert.Equal(t, "l1", last.ID)
	assert.Equal(t, 8, last.Count)
}

func TestRhymesLimits(t *testing.T) {
	dec := roundTrip(t, newTestServer(false),
		Request{ID: "r1", Action: ActionRhymes, Word: "amor"},
		Request{ID: "r2", Action: ActionRhymes, Word: "amor", Limit: -1},
		Request{ID: "r3", Action: ActionRhymes},
	)

	var rhymes SuggestionResponse
	require.NoError(t, dec.Decode(&rhymes))
	assert.Equal(t, 5, rhymes.Count, "omitted limit uses the group limit")

	var errResp ErrorResponse
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "r2", errResp.ID)
	assert.Equal(t, codeBadRequest, errResp.Code)
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "r3", errResp.ID)
}

func TestErrorsKeepServing(t *testing.T) {
	s := newTestServer(false)
	dec := roundTrip(t, s,
		"not a request",
		Request{ID: "u1", Action: "rhyme"},
		Request{ID: "u2"},
		Request{ID: "l1", Action: ActionLastWord},
		Request{ID: "s1", Action: ActionStoreList},
		Request{ID: "h1", Action: ActionHealth},
		Request{ID: "st", Action: ActionStats},
	)

	codes := []int{codeBadRequest, codeBadRequest, codeBadRequest, codeBadRequest, codeUnavailable}
	for _, want := range codes {
		var resp ErrorResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, want, resp.Code, resp.Error)
	}

	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, "ok", health.Status)

	var stats StatusResponse
	require.NoError(t, dec.Decode(&stats))
	assert.EqualValues(t, 7, stats.Requests)
	assert.EqualValues(t, 5, stats.Errors)
	assert.NotNil(t, stats.Cache)
}

func TestStoreActions(t *testing.T) {
	s := newTestServer(true)

	dec := roundTrip(t, s,
		Request{ID: "s1", Action: ActionStoreCreate, Title: "Mar", Verses: sampleVerses()},
		Request{ID: "s2", Action: ActionStoreCreate, Verses: make([]string, 10)},
		Request{ID: "s3", Action: ActionStoreList},
	)

	var created StoreResponse
	require.NoError(t, dec.Decode(&created))
	require.NotNil(t, created.Composition)
	assert.Equal(t, "Mar", created.Composition.Title)
	assert.Equal(t, store.DefaultDescription, created.Composition.Description)
	id := created.Composition.ID

	var empty ErrorResponse
	require.NoError(t, dec.Decode(&empty))
	assert.Equal(t, codeUnprocessed, empty.Code)

	var list StoreResponse
	require.NoError(t, dec.Decode(&list))
	assert.Equal(t, 1, list.Count)

	dec = roundTrip(t, s,
		Request{ID: "s4", Action: ActionStoreUpdate, CompositionID: id, Verses: []string{"otra"}, Description: "olas"},
		Request{ID: "s5", Action: ActionStoreGet, CompositionID: id},
		Request{ID: "s6", Action: ActionStoreDelete, CompositionID: id},
		Request{ID: "s7", Action: ActionStoreGet, CompositionID: id},
		Request{ID: "s8", Action: ActionStoreGet},
	)

	var updated StoreResponse
	require.NoError(t, dec.Decode(&updated))
	assert.Equal(t, "olas", updated.Composition.Description)
	assert.Equal(t, "Mar", updated.Composition.Title)

	var got StoreResponse
	require.NoError(t, dec.Decode(&got))
	assert.Equal(t, []string{"otra"}, got.Composition.Verses)

	var deleted StoreResponse
	require.NoError(t, dec.Decode(&deleted))
	assert.Equal(t, "ok", deleted.Status)

	var missing ErrorResponse
	require.NoError(t, dec.Decode(&missing))
	assert.Equal(t, codeNotFound, missing.Code)
	require.NoError(t, dec.Decode(&missing))
	assert.Equal(t, codeBadRequest, missing.Code)
}

package skills

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestWikipediaSummary(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest_v1/page/summary/Ada_Lovelace", r.URL.Path)
		fmt.Fprint(w, `{"extract":"Ada Lovelace was an English mathematician."}`)
	})
	wiki := NewWikipedia(srv.Client())
	wiki.base = srv.URL

	got, err := wiki.Summary(context.Background(), "ada lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace was an English mathematician.", got)
}

func TestWikipediaNotFound(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	wiki := NewWikipedia(srv.Client())
	wiki.base = srv.URL

	got, err := wiki.Summary(context.Background(), "xyzzy")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I couldn't find anything on Wikipedia.", got)
}

func TestFrankfurterConvert(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("amount"))
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		assert.Equal(t, "EUR", r.URL.Query().Get("to"))
		fmt.Fprint(w, `{"rates":{"EUR":9.2}}`)
	})
	fx := NewFrankfurter(srv.Client())
	fx.base = srv.URL

	got, err := fx.Convert(context.Background(), 10, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "10.00 USD is 9.20 EUR.", got)
}

func TestFrankfurterUnknownCurrency(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	fx := NewFrankfurter(srv.Client())
	fx.base = srv.URL

	got, err := fx.Convert(context.Background(), 10, "USD", "XXX")
	require.NoError(t, err)
	assert.Contains(t, got, "don't know the exchange rate")
}

func TestOpenMeteoCurrent(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/search"):
			assert.Equal(t, "paris", r.URL.Query().Get("name"))
			fmt.Fprint(w, `{"results":[{"name":"Paris","latitude":48.85,"longitude":2.35}]}`)
		case strings.HasPrefix(r.URL.Path, "/v1/forecast"):
			fmt.Fprint(w, `{"current":{"temperature_2m":18.4,"wind_speed_10m":12.0,"weather_code":2}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	om := NewOpenMeteo(srv.Client())
	om.geoBase = srv.URL
	om.base = srv.URL

	got, err := om.Current(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, "It's 18 degrees with partly cloudy in Paris, wind 12 km/h.", got)
}

func TestOpenMeteoUnknownPlace(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	})
	om := NewOpenMeteo(srv.Client())
	om.geoBase = srv.URL
	om.base = srv.URL

	got, err := om.Current(context.Background(), "atlantis")
	require.NoError(t, err)
	assert.Contains(t, got, "don't know where")
}

func TestMyMemoryTranslate(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "good morning", r.URL.Query().Get("q"))
		assert.Equal(t, "en|fr", r.URL.Query().Get("langpair"))
		fmt.Fprint(w, `{"responseData":{"translatedText":"bonjour"}}`)
	})
	mm := NewMyMemory(srv.Client())
	mm.base = srv.URL

	got, err := mm.Translate(context.Background(), "good morning", "french")
	require.NoError(t, err)
	assert.Equal(t, `"good morning" in french is "bonjour".`, got)
}

func TestMyMemoryUnknownLanguage(t *testing.T) {
	mm := NewMyMemory(http.DefaultClient)

	got, err := mm.Translate(context.Background(), "hello", "klingon")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I can't translate into klingon.", got)
}

func TestDictionaryDefine(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/entries/en/serendipity", r.URL.Path)
		fmt.Fprint(w, `[{"meanings":[{"partOfSpeech":"noun","definitions":[{"definition":"a fortunate accident"}]}]}]`)
	})
	d := NewDictionaryAPI(srv.Client())
	d.base = srv.URL

	got, err := d.Define(context.Background(), "serendipity")
	require.NoError(t, err)
	assert.Equal(t, "serendipity (noun): a fortunate accident", got)
}

func TestDictionaryUnknownWord(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	d := NewDictionaryAPI(srv.Client())
	d.base = srv.URL

	got, err := d.Define(context.Background(), "zzqx")
	require.NoError(t, err)
	assert.Contains(t, got, "couldn't find a definition")
}

func TestHackerNewsTop(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v0/topstories.json":
			fmt.Fprint(w, `[11,22,33,44]`)
		case "/v0/item/11.json":
			fmt.Fprint(w, `{"title":"First"}`)
		case "/v0/item/22.json":
			fmt.Fprint(w, `{"title":"Second"}`)
		case "/v0/item/33.json":
			fmt.Fprint(w, `{"title":"Third"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	hn := NewHackerNews(srv.Client())
	hn.base = srv.URL

	got, err := hn.Top(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Top headlines: 1. First 2. Second 3. Third", got)
}

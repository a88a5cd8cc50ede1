package routes

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartwiz/cart"
	"smartwiz/controllers"
	"smartwiz/events"
	"smartwiz/models"
	"smartwiz/utils"
)

type fakeMailer struct{ err error }

func (m *fakeMailer) Name() string { return "fake" }

func (m *fakeMailer) Send(ctx context.Context, msg utils.Message) error { return m.err }

type testServer struct {
	URL    string
	Broker *events.Broker
	Store  *cart.Store
}

func newTestServer(t *testing.T, extra func(*mux.Router)) *testServer {
	t.Helper()
	logger := log.New(io.Discard, "", 0)

	broker := events.NewBroker()
	store := cart.NewStore(broker)
	emailService := utils.NewEmailService(&fakeMailer{}, "shop@smartwiz.local", "http://localhost:3000")

	router := mux.NewRouter()
	RegisterRoutes(router,
		controllers.NewCartController(store, logger),
		controllers.NewEventsController(store, broker, logger),
		controllers.NewPaymentController(utils.NewQRGenerator(nil), logger),
		controllers.NewBillController(emailService, logger),
	)
	if extra != nil {
		extra(router)
	}

	srv := httptest.NewServer(Wrap(router, logger, []string{"*"}))
	t.Cleanup(srv.Close)
	// runs before srv.Close so open feeds end first
	t.Cleanup(broker.Close)

	return &testServer{URL: srv.URL, Broker: broker, Store: store}
}

func (s *testServer) postJSON(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(s.URL+path, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type feed struct {
	body   io.Closer
	events chan []models.LineItem
}

func (s *testServer) openFeed(t *testing.T) *feed {
	t.Helper()
	resp, err := http.Get(s.URL + "/events")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	f := &feed{body: resp.Body, events: make(chan []models.LineItem, 16)}
	go func() {
		defer close(f.events)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var items []models.LineItem
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &items); err != nil {
				return
			}
			f.events <- items
		}
	}()
	t.Cleanup(func() { resp.Body.Close() })
	return f
}

func (f *feed) next(t *testing.T) []models.LineItem {
	t.Helper()
	select {
	case items, ok := <-f.events:
		require.True(t, ok, "event stream ended")
		return items
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestLiveFeed(t *testing.T) {
	s := newTestServer(t, nil)

	first := s.openFeed(t)
	assert.Equal(t, []models.LineItem{}, first.next(t), "first event is the empty cart")

	resp := s.postJSON(t, "/add-item", `{"name":"Rice","price":50,"weight":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rice := []models.LineItem{{Name: "Rice", Price: 50, Weight: 1}}
	assert.Equal(t, rice, first.next(t))

	second := s.openFeed(t)
	assert.Equal(t, rice, second.next(t), "new feeds start from the current cart")

	resp = s.postJSON(t, "/delete-item", `{"name":"Rice"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []models.LineItem{}, first.next(t))
	assert.Equal(t, []models.LineItem{}, second.next(t))

	resp = s.postJSON(t, "/delete-item", `{"name":"Rice"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.Equal(t, 2, s.Broker.Len())
	first.body.Close()
	require.Eventually(t, func() bool { return s.Broker.Len() == 1 }, 2*time.Second, 10*time.Millisecond,
		"closed feed is unsubscribed")

	s.Broker.Close()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-second.events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("feed still open after broker close")
		}
	}
}

func TestLiveFeed_SnapshotMatchesList(t *testing.T) {
	s := newTestServer(t, nil)
	f := s.openFeed(t)
	f.next(t)

	for _, name := range []string{"Rice", "Oil", "Salt"} {
		resp := s.postJSON(t, "/add-item", `{"name":"`+name+`","price":10,"weight":1}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, s.Store.List(), f.next(t))
	}
}

func TestItemsAndDuplicates(t *testing.T) {
	s := newTestServer(t, nil)

	resp := s.postJSON(t, "/add-item", `{"name":"Rice","price":50,"weight":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.postJSON(t, "/add-item", `{"name":"Rice","price":50,"weight":1}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	get, err := http.Get(s.URL + "/items")
	require.NoError(t, err)
	defer get.Body.Close()
	var items []models.LineItem
	require.NoError(t, json.NewDecoder(get.Body).Decode(&items))
	assert.Equal(t, []models.LineItem{{Name: "Rice", Price: 50, Weight: 1}}, items)
}

func TestGenerateQRAndSendBill(t *testing.T) {
	s := newTestServer(t, nil)

	resp := s.postJSON(t, "/generate-qr", `{"name":"A","phone":"9876543210","totalAmount":170}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var qr models.PaymentQRResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&qr))
	assert.True(t, strings.HasPrefix(qr.QRCodeURL, "data:image/png;base64,"))

	resp = s.postJSON(t, "/generate-qr", `{"name":"A","totalAmount":170}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.postJSON(t, "/send-bill", `{"email":"a@b.com","name":"A","products":[{"name":"Rice","price":50}],"totalAmount":50}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMethodAndPathMatching(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := http.Get(s.URL + "/add-item")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(s.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(s.URL + "/confirm-payment?email=a%40b.com")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "a@b.com")
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, s.URL+"/add-item", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://pos.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodGet, s.URL+"/items", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://pos.example.com")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	})

	resp, err := http.Get(s.URL + "/boom")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal server error.", body["message"])
	assert.NotEmpty(t, body["requestId"])

	resp2, err := http.Get(s.URL + "/items")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode, "server keeps serving after a panic")
}

func TestPanicAfterHeaders(t *testing.T) {
	s := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/half", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("partial"))
			panic("late")
		})
	})

	resp, err := http.Get(s.URL + "/half")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "partial", string(body))
}

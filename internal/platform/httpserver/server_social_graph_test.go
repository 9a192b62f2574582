package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	relationshipservice "rookery/contexts/social-graph/relationship-service"
	votingengine "rookery/contexts/social-graph/voting-engine"
)

func newTestServer() *Server {
	relationships := relationshipservice.NewInMemoryModule(nil, nil)
	voting := votingengine.NewInMemoryModule([]string{"post-1"}, nil)
	return New(relationships, voting, nil, "")
}

func TestSendRequestRequiresUserHeader(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/relationships/requests",
		strings.NewReader(`{"addressee_id":"bob"}`))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSendRequestRejectsInvalidJSON(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/relationships/requests",
		strings.NewReader(`{not json`))
	req.Header.Set("X-User-Id", "alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSendRequestCreated(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/relationships/requests",
		strings.NewReader(`{"addressee_id":"bob"}`))
	req.Header.Set("X-User-Id", "alice")
	req.Header.Set("X-User-Name", "Alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response must be JSON: %v", err)
	}
	if body["status"] != "pending" {
		t.Fatalf("expected pending status, got %v", body["status"])
	}
}

func TestSendRequestConflictMapsTo409(t *testing.T) {
	server := newTestServer()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/relationships/requests",
			strings.NewReader(`{"addressee_id":"bob"}`))
		req.Header.Set("X-User-Id", "alice")

		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)

		if i == 0 && rr.Code != http.StatusCreated {
			t.Fatalf("first request expected 201, got %d body=%s", rr.Code, rr.Body.String())
		}
		if i == 1 {
			if rr.Code != http.StatusConflict {
				t.Fatalf("repeat request expected 409, got %d body=%s", rr.Code, rr.Body.String())
			}
			var body map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("error body must be JSON: %v", err)
			}
			if body["code"] != "request_already_pending" {
				t.Fatalf("expected request_already_pending, got %v", body["code"])
			}
		}
	}
}

func TestSelfRequestMapsTo400(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/relationships/requests",
		strings.NewReader(`{"addressee_id":"alice"}`))
	req.Header.Set("X-User-Id", "alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRespondUnknownRequestMapsTo404(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/relationships/requests/carol/respond",
		strings.NewReader(`{"action":"accept"}`))
	req.Header.Set("X-User-Id", "bob")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAcceptFlowOverHTTP(t *testing.T) {
	server := newTestServer()

	send := httptest.NewRequest(http.MethodPost, "/api/v1/relationships/requests",
		strings.NewReader(`{"addressee_id":"bob"}`))
	send.Header.Set("X-User-Id", "alice")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, send)
	if rr.Code != http.StatusCreated {
		t.Fatalf("send expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	respond := httptest.NewRequest(http.MethodPost, "/api/v1/relationships/requests/alice/respond",
		strings.NewReader(`{"action":"accept"}`))
	respond.Header.Set("X-User-Id", "bob")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, respond)
	if rr.Code != http.StatusOK {
		t.Fatalf("respond expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	list := httptest.NewRequest(http.MethodGet, "/api/v1/relationships?status=accepted", nil)
	list.Header.Set("X-User-Id", "alice")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, list)
	if rr.Code != http.StatusOK {
		t.Fatalf("list expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var listBody struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listBody); err != nil {
		t.Fatalf("list body must be JSON: %v", err)
	}
	if len(listBody.Items) != 1 {
		t.Fatalf("expected one accepted relationship, got %d", len(listBody.Items))
	}

	notifications := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	notifications.Header.Set("X-User-Id", "alice")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, notifications)
	if rr.Code != http.StatusOK {
		t.Fatalf("notifications expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCastVoteRequiresUserHeader(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subjects/post-1/votes",
		strings.NewReader(`{"vote_type":"up"}`))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCastVoteUnknownSubjectMapsTo404(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subjects/post-missing/votes",
		strings.NewReader(`{"vote_type":"up"}`))
	req.Header.Set("X-User-Id", "alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCastVoteInvalidTypeMapsTo400(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subjects/post-1/votes",
		strings.NewReader(`{"vote_type":"sideways"}`))
	req.Header.Set("X-User-Id", "alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestVoteAndReadAggregateOverHTTP(t *testing.T) {
	server := newTestServer()

	cast := httptest.NewRequest(http.MethodPost, "/api/v1/subjects/post-1/votes",
		strings.NewReader(`{"vote_type":"up"}`))
	cast.Header.Set("X-User-Id", "alice")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, cast)
	if rr.Code != http.StatusOK {
		t.Fatalf("cast expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var castBody map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &castBody); err != nil {
		t.Fatalf("cast body must be JSON: %v", err)
	}
	if castBody["action"] != "insert" {
		t.Fatalf("expected insert action, got %v", castBody["action"])
	}

	// Aggregate read needs no identity.
	read := httptest.NewRequest(http.MethodGet, "/api/v1/subjects/post-1/votes", nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, read)
	if rr.Code != http.StatusOK {
		t.Fatalf("read expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var readBody map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &readBody); err != nil {
		t.Fatalf("read body must be JSON: %v", err)
	}
	if readBody["upvotes"] != float64(1) || readBody["downvotes"] != float64(0) {
		t.Fatalf("expected 1/0, got %v/%v", readBody["upvotes"], readBody["downvotes"])
	}
}

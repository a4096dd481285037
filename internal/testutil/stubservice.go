package testutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"todotree/internal/todo"
)

// StubService is an httptest-ready handler that speaks the task
// service's wire shape: value envelopes, @odata.nextLink paging and
// the error envelope. Unlike FakeGateway it exercises the real HTTP
// client, so gateway tests use it through httptest.Server.
type StubService struct {
	router chi.Router

	// Token is the bearer token the stub accepts. Empty disables the
	// auth check.
	Token string

	// PageSize splits task collections into linked pages when > 0.
	PageSize int

	// BaseURL must be set to the httptest server URL before paged
	// requests, so nextLink points back at the stub.
	BaseURL string

	Lists []todo.TaskList
	Tasks map[string][]todo.Task

	// Requests records "METHOD path?query" in arrival order.
	Requests []string
}

type page struct {
	Value    []json.RawMessage `json:"value"`
	NextLink string            `json:"@odata.nextLink,omitempty"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewStubService wires the stub's routes.
func NewStubService() *StubService {
	s := &StubService{Tasks: make(map[string][]todo.Task)}
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.auth)
	r.Get("/lists", s.getLists)
	r.Post("/lists", s.postList)
	r.Get("/lists/{listID}/tasks", s.getTasks)
	r.Post("/lists/{listID}/tasks", s.postTask)
	r.Get("/lists/{listID}/tasks/{taskID}", s.getTask)
	r.Patch("/lists/{listID}/tasks/{taskID}", s.patchTask)
	r.Delete("/lists/{listID}/tasks/{taskID}", s.deleteTask)
	s.router = r
	return s
}

func (s *StubService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *StubService) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		line := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			line += "?" + r.URL.RawQuery
		}
		s.Requests = append(s.Requests, line)
		next.ServeHTTP(w, r)
	})
}

func (s *StubService) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.Token {
			s.writeError(w, http.StatusUnauthorized, "InvalidAuthenticationToken", "Access token is empty.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *StubService) getLists(w http.ResponseWriter, r *http.Request) {
	items, err := marshalAll(s.Lists)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "InternalServerError", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, page{Value: items})
}

func (s *StubService) postList(w http.ResponseWriter, r *http.Request) {
	var list todo.TaskList
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	list.ID = uuid.NewString()
	s.Lists = append(s.Lists, list)
	writeJSON(w, http.StatusCreated, list)
}

func (s *StubService) getTasks(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	if !s.hasList(listID) {
		s.writeError(w, http.StatusNotFound, "ErrorItemNotFound", "The requested list was not found.")
		return
	}
	tasks := s.filtered(listID, r.URL.Query().Get("filter"))

	skip := 0
	if raw := r.URL.Query().Get("skip"); raw != "" {
		skip, _ = strconv.Atoi(raw)
	}
	if skip > len(tasks) {
		skip = len(tasks)
	}
	tasks = tasks[skip:]

	var next string
	if s.PageSize > 0 && len(tasks) > s.PageSize {
		tasks = tasks[:s.PageSize]
		q := r.URL.Query()
		q.Set("skip", strconv.Itoa(skip+s.PageSize))
		next = s.BaseURL + r.URL.Path + "?" + q.Encode()
	}

	items, err := marshalAll(tasks)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "InternalServerError", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, page{Value: items, NextLink: next})
}

func (s *StubService) postTask(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	if !s.hasList(listID) {
		s.writeError(w, http.StatusNotFound, "ErrorItemNotFound", "The requested list was not found.")
		return
	}
	var task todo.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	task.ID = uuid.NewString()
	if task.Status == "" {
		task.Status = todo.StatusNotStarted
	}
	if task.Importance == "" {
		task.Importance = todo.ImportanceNormal
	}
	s.Tasks[listID] = append(s.Tasks[listID], task)
	writeJSON(w, http.StatusCreated, task)
}

func (s *StubService) getTask(w http.ResponseWriter, r *http.Request) {
	listID, taskID := chi.URLParam(r, "listID"), chi.URLParam(r, "taskID")
	for _, t := range s.Tasks[listID] {
		if t.ID == taskID {
			writeJSON(w, http.StatusOK, t)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "ErrorItemNotFound", "The requested item was not found.")
}

func (s *StubService) patchTask(w http.ResponseWriter, r *http.Request) {
	listID, taskID := chi.URLParam(r, "listID"), chi.URLParam(r, "taskID")
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	tasks := s.Tasks[listID]
	for i := range tasks {
		if tasks[i].ID == taskID {
			if err := applyFields(&tasks[i], fields); err != nil {
				s.writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
				return
			}
			writeJSON(w, http.StatusOK, tasks[i])
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "ErrorItemNotFound", "The requested item was not found.")
}

func (s *StubService) deleteTask(w http.ResponseWriter, r *http.Request) {
	listID, taskID := chi.URLParam(r, "listID"), chi.URLParam(r, "taskID")
	tasks := s.Tasks[listID]
	for i, t := range tasks {
		if t.ID == taskID {
			s.Tasks[listID] = append(tasks[:i], tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "ErrorItemNotFound", "The requested item was not found.")
}

func (s *StubService) hasList(id string) bool {
	for _, l := range s.Lists {
		if l.ID == id {
			return true
		}
	}
	return false
}

func (s *StubService) filtered(listID, filter string) []todo.Task {
	f := &FakeGateway{tasks: s.Tasks}
	return f.filteredTasks(listID, filter)
}

func (s *StubService) writeError(w http.ResponseWriter, status int, code, message string) {
	var env errorEnvelope
	env.Error.Code = code
	env.Error.Message = message
	writeJSON(w, status, env)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"taskctl/internal/service"
)

// BasePath is the resource root the fake server mounts the Task API under.
const BasePath = "/tasks"

// RecordedRequest is one request seen by FakeServer.
type RecordedRequest struct {
	Method    string
	Path      string
	Body      string
	RequestID string
}

type cannedResponse struct {
	code int
	body string
}

// FakeServer is an in-process implementation of the remote Task API used to
// exercise the HTTP client end to end.
type FakeServer struct {
	server *httptest.Server

	mu       sync.Mutex
	tasks    []service.Task
	nextID   int
	requests []RecordedRequest
	failures map[string]failure
	canned   map[string]cannedResponse

	// PartialUpdates makes update responses carry only the title, to check
	// that clients merge instead of replacing.
	PartialUpdates bool
}

type failure struct {
	code    int
	message string
}

// NewFakeServer starts a FakeServer that is closed when the test ends.
func NewFakeServer(t testing.TB) *FakeServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &FakeServer{
		nextID:   1,
		failures: make(map[string]failure),
		canned:   make(map[string]cannedResponse),
	}

	router := gin.New()
	router.Use(s.record)

	api := router.Group(BasePath)
	{
		api.GET("/getAllTasks", s.intercept(service.OpList), s.handleList)
		api.POST("/createTask", s.intercept(service.OpCreate), s.handleCreate)
		api.GET("/getTaskByID/:id", s.intercept(service.OpGet), s.handleGet)
		api.PUT("/updateTask/:id", s.intercept(service.OpUpdate), s.handleUpdate)
		api.PUT("/deleteTask/:id", s.intercept(service.OpDelete), s.handleDelete)
	}

	s.server = httptest.NewServer(router)
	t.Cleanup(s.server.Close)
	return s
}

// BaseURL returns the API root, e.g. http://127.0.0.1:1234/tasks.
func (s *FakeServer) BaseURL() string {
	return s.server.URL + BasePath
}

// Close stops the server; later calls fail with a transport error.
func (s *FakeServer) Close() {
	s.server.Close()
}

// Seed adds tasks with fixed ids. Numeric ids advance the id counter.
func (s *FakeServer) Seed(tasks ...service.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, task := range tasks {
		s.tasks = append(s.tasks, task)
		if n, err := strconv.Atoi(string(task.ID)); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}
}

// Tasks returns a copy of the stored collection.
func (s *FakeServer) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]service.Task, len(s.tasks))
	copy(result, s.tasks)
	return result
}

// Requests returns the requests received so far.
func (s *FakeServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]RecordedRequest, len(s.requests))
	copy(result, s.requests)
	return result
}

// FailWith makes op answer with a FAILURE envelope and the given HTTP status.
func (s *FakeServer) FailWith(op string, code int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = failure{code: code, message: message}
}

// RespondRaw makes op answer with an arbitrary body.
func (s *FakeServer) RespondRaw(op string, code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[op] = cannedResponse{code: code, body: body}
}

func (s *FakeServer) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Body:      string(body),
		RequestID: c.GetHeader("X-Request-ID"),
	})
	s.mu.Unlock()

	c.Next()
}

func (s *FakeServer) intercept(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		canned, hasCanned := s.canned[op]
		fail, hasFailure := s.failures[op]
		s.mu.Unlock()

		switch {
		case hasCanned:
			c.Data(canned.code, "application/json", []byte(canned.body))
			c.Abort()
		case hasFailure:
			respond(c, fail.code, service.StatusFailure, fail.message, nil)
			c.Abort()
		}
	}
}

func (s *FakeServer) handleList(c *gin.Context) {
	s.mu.Lock()
	data := make([]gin.H, 0, len(s.tasks))
	for _, task := range s.tasks {
		data = append(data, wireTask(task))
	}
	s.mu.Unlock()

	respond(c, http.StatusOK, service.StatusSuccess, "Tasks fetched successfully", data)
}

func (s *FakeServer) handleCreate(c *gin.Context) {
	var draft service.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respond(c, http.StatusBadRequest, service.StatusFailure, "Invalid request body", nil)
		return
	}

	s.mu.Lock()
	task := service.Task{
		ID:          service.ID(strconv.Itoa(s.nextID)),
		Title:       draft.Title,
		Description: draft.Description,
	}
	s.nextID++
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	respond(c, http.StatusCreated, service.StatusSuccess, "Task created successfully", wireTask(task))
}

func (s *FakeServer) handleGet(c *gin.Context) {
	id := service.ID(c.Param("id"))

	s.mu.Lock()
	i := s.indexOf(id)
	var task service.Task
	if i >= 0 {
		task = s.tasks[i]
	}
	s.mu.Unlock()

	if i < 0 {
		respond(c, http.StatusNotFound, service.StatusFailure, "Task not found", nil)
		return
	}
	respond(c, http.StatusOK, service.StatusSuccess, "Task fetched successfully", []gin.H{wireTask(task)})
}

func (s *FakeServer) handleUpdate(c *gin.Context) {
	id := service.ID(c.Param("id"))

	var draft service.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respond(c, http.StatusBadRequest, service.StatusFailure, "Invalid request body", nil)
		return
	}

	s.mu.Lock()
	i := s.indexOf(id)
	var task service.Task
	if i >= 0 {
		s.tasks[i] = s.tasks[i].Merge(service.Task{Title: draft.Title, Description: draft.Description})
		task = s.tasks[i]
	}
	partial := s.PartialUpdates
	s.mu.Unlock()

	if i < 0 {
		respond(c, http.StatusNotFound, service.StatusFailure, "Task not found", nil)
		return
	}

	data := wireTask(task)
	if partial {
		data = gin.H{"title": task.Title}
	}
	respond(c, http.StatusOK, service.StatusSuccess, "Task updated successfully", data)
}

func (s *FakeServer) handleDelete(c *gin.Context) {
	id := service.ID(c.Param("id"))

	s.mu.Lock()
	i := s.indexOf(id)
	if i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	s.mu.Unlock()

	if i < 0 {
		respond(c, http.StatusNotFound, service.StatusFailure, "Task not found", nil)
		return
	}
	respond(c, http.StatusOK, service.StatusSuccess, "Task deleted successfully", nil)
}

// indexOf must be called with s.mu held.
func (s *FakeServer) indexOf(id service.ID) int {
	for i, task := range s.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func respond(c *gin.Context, code int, status service.Status, message string, data any) {
	c.JSON(code, gin.H{"status": status, "message": message, "data": data})
}

// wireTask renders numeric ids as JSON numbers, the way the real service does.
func wireTask(task service.Task) gin.H {
	var id any = string(task.ID)
	if n, err := strconv.Atoi(string(task.ID)); err == nil {
		id = n
	}
	return gin.H{"id": id, "title": task.Title, "description": task.Description}
}

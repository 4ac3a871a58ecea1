package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pbaille/taskboard/internal/aggregate"
	"github.com/pbaille/taskboard/internal/domain"
	"github.com/pbaille/taskboard/internal/tracker"
)

// CreateTaskRequest is the request body for creating a task
type CreateTaskRequest struct {
	Title    string               `json:"title"`
	Type     string               `json:"type"`
	Tags     []string             `json:"tags"`
	SubTasks []CreateSubTaskInput `json:"subTasks"`
}

// CreateSubTaskInput is a subtask in a create request
type CreateSubTaskInput struct {
	Title string `json:"title"`
}

// UpdateTaskRequest is the request body for a partial task update
type UpdateTaskRequest struct {
	Title     *string   `json:"title"`
	Completed *bool     `json:"completed"`
	Archived  *bool     `json:"archived"`
	Tags      *[]string `json:"tags"`
}

// SubTaskRequest is the request body for creating or updating a subtask
type SubTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *Server) listTasks(c *gin.Context) {
	filter, err := s.parseFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	page, err := s.tracker.ListTasks(filter)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": viewsOf(page.Tasks),
		"pagination": Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

func (s *Server) parseFilter(c *gin.Context) (aggregate.Filter, error) {
	f := aggregate.Filter{Page: 1, Limit: s.cfg.Pagination.DefaultLimit}

	status, err := aggregate.ParseStatus(c.Query("status"))
	if err != nil {
		return f, err
	}
	f.Status = status

	if v := c.Query("archived"); v != "" {
		archived, err := strconv.ParseBool(v)
		if err != nil {
			return f, errInvalid("archived must be true or false")
		}
		f.Archived = archived
	}

	if v := c.Query("tags"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				f.Tags = append(f.Tags, id)
			}
		}
	}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, errInvalid("page must be a positive integer")
		}
		f.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > s.cfg.Pagination.MaxLimit {
			return f, errInvalid("limit must be between 1 and " + strconv.Itoa(s.cfg.Pagination.MaxLimit))
		}
		f.Limit = n
	}

	return f, nil
}

func (s *Server) getTask(c *gin.Context) {
	task, err := s.tracker.GetTask(c.Param("taskId"))
	if err != nil {
		writeFailure(c, err)
		return
	}
	writeData(c, http.StatusOK, viewOf(task))
}

func (s *Server) createTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	in := tracker.NewTask{
		Title: req.Title,
		Kind:  domain.Kind(req.Type),
		Tags:  req.Tags,
	}
	for _, st := range req.SubTasks {
		in.SubTasks = append(in.SubTasks, st.Title)
	}

	task, err := s.tracker.CreateTask(in)
	if err != nil {
		writeFailure(c, err)
		return
	}
	writeData(c, http.StatusCreated, viewOf(task))
}

func (s *Server) updateTask(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	task, err := s.tracker.UpdateTask(c.Param("taskId"), tracker.TaskPatch{
		Title:     req.Title,
		Completed: req.Completed,
		Archived:  req.Archived,
		Tags:      req.Tags,
	})
	if err != nil {
		writeFailure(c, err)
		return
	}
	writeData(c, http.StatusOK, viewOf(task))
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.tracker.DeleteTask(c.Param("taskId")); err != nil {
		writeFailure(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) toggleTask(c *gin.Context) {
	s.respondTask(c, http.StatusOK)(s.tracker.ToggleTask(c.Param("taskId")))
}

func (s *Server) archiveTask(c *gin.Context) {
	s.respondTask(c, http.StatusOK)(s.tracker.ArchiveTask(c.Param("taskId")))
}

func (s *Server) restoreTask(c *gin.Context) {
	s.respondTask(c, http.StatusOK)(s.tracker.RestoreTask(c.Param("taskId")))
}

func (s *Server) addSubTask(c *gin.Context) {
	var req SubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	var title string
	if req.Title != nil {
		title = *req.Title
	}
	s.respondTask(c, http.StatusCreated)(s.tracker.AddSubTask(c.Param("taskId"), title))
}

func (s *Server) updateSubTask(c *gin.Context) {
	var req SubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	s.respondTask(c, http.StatusOK)(s.tracker.UpdateSubTask(
		c.Param("taskId"), c.Param("subtaskId"),
		tracker.SubTaskPatch{Title: req.Title, Completed: req.Completed},
	))
}

func (s *Server) toggleSubTask(c *gin.Context) {
	s.respondTask(c, http.StatusOK)(s.tracker.ToggleSubTask(c.Param("taskId"), c.Param("subtaskId")))
}

func (s *Server) deleteSubTask(c *gin.Context) {
	s.respondTask(c, http.StatusOK)(s.tracker.DeleteSubTask(c.Param("taskId"), c.Param("subtaskId")))
}

// respondTask writes the outcome of a task mutation
func (s *Server) respondTask(c *gin.Context, status int) func(*domain.Task, error) {
	return func(task *domain.Task, err error) {
		if err != nil {
			writeFailure(c, err)
			return
		}
		writeData(c, status, viewOf(task))
	}
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pbaille/taskboard/internal/tracker"
)

// TagRequest is the request body for creating or updating a tag
type TagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (s *Server) listTags(c *gin.Context) {
	tags, err := s.tracker.ListTags()
	if err != nil {
		writeFailure(c, err)
		return
	}
	writeData(c, http.StatusOK, tags)
}

func (s *Server) getTag(c *gin.Context) {
	tag, err := s.tracker.GetTag(c.Param("tagId"))
	if err != nil {
		writeFailure(c, err)
		return
	}
	writeData(c, http.StatusOK, tag)
}

func (s *Server) createTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	var name, color string
	if req.Name != nil {
		name = *req.Name
	}
	if req.Color != nil {
		color = *req.Color
	}

	tag, err := s.tracker.CreateTag(name, color)
	if err != nil {
		writeFailure(c, err)
		return
	}
	writeData(c, http.StatusCreated, tag)
}

func (s *Server) updateTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	tag, err := s.tracker.UpdateTag(c.Param("tagId"), tracker.TagPatch{Name: req.Name, Color: req.Color})
	if err != nil {
		writeFailure(c, err)
		return
	}
	writeData(c, http.StatusOK, tag)
}

func (s *Server) deleteTag(c *gin.Context) {
	if err := s.tracker.DeleteTag(c.Param("tagId")); err != nil {
		writeFailure(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

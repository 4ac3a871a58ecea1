package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pbaille/taskboard/internal/contrib"
	"github.com/pbaille/taskboard/internal/domain"
)

func (s *Server) stats(c *gin.Context) {
	stats, err := s.tracker.Statistics()
	if err != nil {
		writeFailure(c, err)
		return
	}
	writeData(c, http.StatusOK, stats)
}

func (s *Server) contributions(c *gin.Context) {
	q, err := s.parseContribQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := s.tracker.Contributions(q)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    res.Series,
		"summary": res.Summary,
	})
}

func (s *Server) parseContribQuery(c *gin.Context) (contrib.Query, error) {
	q := contrib.Query{
		Days:   s.cfg.Contributions.DefaultDays,
		MaxLen: s.cfg.Contributions.MaxRangeDays,
	}

	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > s.cfg.Contributions.MaxDays {
			return q, errInvalid("days must be between 1 and " + strconv.Itoa(s.cfg.Contributions.MaxDays))
		}
		q.Days = n
	}

	var err error
	if q.Start, err = parseDate(c.Query("startDate"), "startDate"); err != nil {
		return q, err
	}
	if q.End, err = parseDate(c.Query("endDate"), "endDate"); err != nil {
		return q, err
	}
	return q, nil
}

func parseDate(v, field string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, v)
	if err != nil {
		return nil, errInvalid(field + " must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

func errInvalid(message string) error {
	return errors.New(message)
}

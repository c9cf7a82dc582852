package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/fadilmartias/jobapply/internal/config"
	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// SubmissionError is returned when the endpoint is unreachable or answers with a non-2xx status.
type SubmissionError struct {
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submission rejected with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

type SubmissionReceipt struct {
	StatusCode int
	Reference  string
}

type SubmissionServiceInterface interface {
	Submit(ctx context.Context, app *model.Application) (*SubmissionReceipt, error)
}

type SubmissionService struct {
	client *resty.Client
	path   string
	mode   string
}

func NewSubmissionService(cfg *config.SubmissionConfig) *SubmissionService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &SubmissionService{
		client: client,
		path:   cfg.Path,
		mode:   cfg.Mode,
	}
}

// Submit sends the application exactly once. There is no retry; the caller keeps the
// draft so the applicant can try again.
func (s *SubmissionService) Submit(ctx context.Context, app *model.Application) (*SubmissionReceipt, error) {
	req := s.client.R().SetContext(ctx)

	if s.mode == config.SubmissionModeJSON {
		req.SetHeader("Content-Type", "application/json").SetBody(app)
	} else {
		fields, err := multipartFields(app)
		if err != nil {
			return nil, err
		}
		req.SetMultipartFormData(fields)
		for _, kind := range []model.DocumentKind{model.DocumentProfilePic, model.DocumentCV} {
			if att := app.Document(kind); att != nil {
				req.SetMultipartField(string(kind), att.Filename, att.ContentType, bytes.NewReader(att.Data))
			}
		}
	}

	resp, err := req.Post(s.path)
	if err != nil {
		log.Printf("Submission request failed: %v", err)
		return nil, &SubmissionError{Err: err}
	}
	if !resp.IsSuccess() {
		log.Printf("Submission rejected: %s %s", resp.Status(), truncate(resp.String(), 200))
		return nil, &SubmissionError{
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", resp.Status()),
		}
	}

	return &SubmissionReceipt{
		StatusCode: resp.StatusCode(),
		Reference:  receiptReference(resp.Body()),
	}, nil
}

// multipartFields flattens the application into text parts. Address leaves keep their own
// names; list fields travel as JSON strings.
func multipartFields(app *model.Application) (map[string]string, error) {
	body, err := json.Marshal(app.WithoutDocuments())
	if err != nil {
		return nil, fmt.Errorf("encode application: %w", err)
	}
	fields := make(map[string]string)
	gjson.ParseBytes(body).ForEach(func(key, value gjson.Result) bool {
		switch {
		case key.String() == "address":
			value.ForEach(func(k, v gjson.Result) bool {
				fields[k.String()] = v.String()
				return true
			})
		case value.IsArray():
			fields[key.String()] = value.Raw
		default:
			fields[key.String()] = value.String()
		}
		return true
	})
	return fields, nil
}

func receiptReference(body []byte) string {
	for _, path := range []string{"id", "data.id", "reference"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

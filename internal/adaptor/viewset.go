package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"backend-template/internal/dto/request"
	"backend-template/internal/dto/response"
	"backend-template/pkg/apperror"
	"backend-template/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgInvalidPage = "无效页面。"
	msgParseError  = "JSON 解析错误"
	msgCreated     = "创建成功"
	msgUpdated     = "更新成功"
	msgDeleted     = "删除成功"

	codeParseError = "parse_error"
)

// Resource is the CRUD surface a ViewSet exposes. C and U are the create and
// update payloads, R the rendered item.
type Resource[C, U, R any] interface {
	List(ctx context.Context, page request.PageRequest) ([]R, int64, error)
	Get(ctx context.Context, id string) (R, error)
	Create(ctx context.Context, req *C) (R, error)
	Update(ctx context.Context, id string, req *U, partial bool) (R, error)
	Delete(ctx context.Context, id string) error
}

// ViewSet turns a Resource into the standard list/retrieve/create/update/
// destroy endpoints.
type ViewSet[C, U, R any] struct {
	resource Resource[C, U, R]
	log      *zap.Logger
}

func NewViewSet[C, U, R any](resource Resource[C, U, R], log *zap.Logger) *ViewSet[C, U, R] {
	return &ViewSet[C, U, R]{
		resource: resource,
		log:      log,
	}
}

// ReadRoutes mounts GET / and GET /{id}.
func (v *ViewSet[C, U, R]) ReadRoutes(r chi.Router) {
	r.Get("/", v.List)
	r.Get("/{id}", v.Retrieve)
}

// WriteRoutes mounts POST /, PUT /{id}, PATCH /{id} and DELETE /{id}.
func (v *ViewSet[C, U, R]) WriteRoutes(r chi.Router) {
	r.Post("/", v.Create)
	r.Put("/{id}", v.Update)
	r.Patch("/{id}", v.PartialUpdate)
	r.Delete("/{id}", v.Destroy)
}

// List handles GET / with page and page_size query parameters.
func (v *ViewSet[C, U, R]) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := utils.ParsePage(r)

	items, total, err := v.resource.List(r.Context(), request.PageRequest{Page: page, PageSize: pageSize})
	if err != nil {
		apperror.Write(w, v.log, err, "list")
		return
	}

	if page > 1 && page > utils.CalculateTotalPages(total, pageSize) {
		apperror.Write(w, v.log, apperror.NotFound(msgInvalidPage), "list")
		return
	}

	utils.ResponseSuccess(w, "", response.NewPage(items, total, page, pageSize, r.URL))
}

func (v *ViewSet[C, U, R]) Retrieve(w http.ResponseWriter, r *http.Request) {
	item, err := v.resource.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apperror.Write(w, v.log, err, "retrieve")
		return
	}

	utils.ResponseSuccess(w, "", item)
}

func (v *ViewSet[C, U, R]) Create(w http.ResponseWriter, r *http.Request) {
	var req C
	if !decodeJSON(w, r, v.log, &req) {
		return
	}

	item, err := v.resource.Create(r.Context(), &req)
	if err != nil {
		apperror.Write(w, v.log, err, "create")
		return
	}

	utils.ResponseCreated(w, msgCreated, item)
}

func (v *ViewSet[C, U, R]) Update(w http.ResponseWriter, r *http.Request) {
	v.update(w, r, false)
}

func (v *ViewSet[C, U, R]) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	v.update(w, r, true)
}

func (v *ViewSet[C, U, R]) update(w http.ResponseWriter, r *http.Request, partial bool) {
	var req U
	if !decodeJSON(w, r, v.log, &req) {
		return
	}

	item, err := v.resource.Update(r.Context(), chi.URLParam(r, "id"), &req, partial)
	if err != nil {
		apperror.Write(w, v.log, err, "update")
		return
	}

	utils.ResponseSuccess(w, msgUpdated, item)
}

func (v *ViewSet[C, U, R]) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := v.resource.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		apperror.Write(w, v.log, err, "delete")
		return
	}

	utils.ResponseSuccess(w, msgDeleted, nil)
}

// decodeJSON reads the body into dst. An empty body leaves dst zero.
func decodeJSON(w http.ResponseWriter, r *http.Request, log *zap.Logger, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	apperror.Write(w, log, apperror.New(http.StatusBadRequest, codeParseError, msgParseError), "decode request")
	return false
}

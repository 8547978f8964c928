package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"typist/internal/app"
	"typist/internal/model"
	"typist/internal/pkg/pdfextract"
	"typist/internal/repository"
	"typist/internal/transport/http/response"
)

// AdminResource exposes list, get, create, edit and delete for one entity.
// T is the stored entity, C the create payload and U the edit payload.
type AdminResource[T any, C any, U any] struct {
	Name   string
	Fields []string

	List   func(ctx context.Context, page repository.Page) ([]T, error)
	Get    func(ctx context.Context, id uint) (*T, error)
	Create func(ctx context.Context, in C) (*T, error)
	Update func(ctx context.Context, id uint, in U) (*T, error)
	Delete func(ctx context.Context, id uint) error
}

// AdminMount is the type-erased view of an AdminResource used by the console.
type AdminMount interface {
	ResourceName() string
	ResourceFields() []string
	Mount(group *gin.RouterGroup)
}

func (r *AdminResource[T, C, U]) ResourceName() string     { return r.Name }
func (r *AdminResource[T, C, U]) ResourceFields() []string { return r.Fields }

func (r *AdminResource[T, C, U]) Mount(group *gin.RouterGroup) {
	g := group.Group("/" + r.Name)
	g.GET("", r.list)
	g.POST("", r.create)
	g.GET("/:id", r.get)
	g.PUT("/:id", r.update)
	g.DELETE("/:id", r.delete)
}

func (r *AdminResource[T, C, U]) list(c *gin.Context) {
	items, err := r.List(c.Request.Context(), queryPage(c))
	if err != nil {
		writeError(c, err, fmt.Sprintf("list %s failed", r.Name))
		return
	}
	if items == nil {
		items = []T{}
	}
	response.OK(c, items)
}

func (r *AdminResource[T, C, U]) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := r.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, fmt.Sprintf("get %s failed", r.Name))
		return
	}
	response.OK(c, item)
}

func (r *AdminResource[T, C, U]) create(c *gin.Context) {
	var in C
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	item, err := r.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, fmt.Sprintf("create %s failed", r.Name))
		return
	}
	response.Created(c, item)
}

func (r *AdminResource[T, C, U]) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in U
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	item, err := r.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err, fmt.Sprintf("update %s failed", r.Name))
		return
	}
	response.OK(c, item)
}

func (r *AdminResource[T, C, U]) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := r.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, fmt.Sprintf("delete %s failed", r.Name))
		return
	}
	response.OK(c, gin.H{"id": id})
}

// AdminUserCreate carries a plaintext password which is hashed on save.
type AdminUserCreate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserName  string `json:"user_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	ImgURL    string `json:"img_url"`
	IsAdmin   bool   `json:"is_admin"`
}

type AdminUserUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	UserName  *string `json:"user_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	ImgURL    *string `json:"img_url"`
	IsAdmin   *bool   `json:"is_admin"`
}

type AdminExcerptInput struct {
	Body string `json:"body"`
}

// AdminScoreInput requires every field; an explicit 0 is accepted.
type AdminScoreInput struct {
	WPM        *int `json:"wpm" binding:"required"`
	Time       *int `json:"time" binding:"required"`
	ExcerptID  *int `json:"excerpt_id" binding:"required"`
	ErrorCount *int `json:"error_count" binding:"required"`
}

func (in AdminScoreInput) toScoreInput() app.ScoreInput {
	return app.ScoreInput{WPM: *in.WPM, Time: *in.Time, ExcerptID: *in.ExcerptID, ErrorCount: *in.ErrorCount}
}

func NewUserAdminResource(users *app.UserAdminService) *AdminResource[model.User, AdminUserCreate, AdminUserUpdate] {
	return &AdminResource[model.User, AdminUserCreate, AdminUserUpdate]{
		Name:   "users",
		Fields: []string{"id", "first_name", "last_name", "email", "user_name", "img_url", "is_admin", "created_date", "updated_date"},
		List:   users.List,
		Get:    users.Get,
		Create: func(ctx context.Context, in AdminUserCreate) (*model.User, error) {
			return users.Create(ctx, app.RegisterInput{
				FirstName: in.FirstName,
				LastName:  in.LastName,
				UserName:  in.UserName,
				Email:     in.Email,
				Password:  in.Password,
				ImgURL:    in.ImgURL,
				IsAdmin:   in.IsAdmin,
			})
		},
		Update: func(ctx context.Context, id uint, in AdminUserUpdate) (*model.User, error) {
			return users.Update(ctx, id, app.UserUpdate{
				FirstName: in.FirstName,
				LastName:  in.LastName,
				UserName:  in.UserName,
				Email:     in.Email,
				Password:  in.Password,
				ImgURL:    in.ImgURL,
				IsAdmin:   in.IsAdmin,
			})
		},
		Delete: users.Delete,
	}
}

func NewExcerptAdminResource(excerpts *app.ExcerptService) *AdminResource[model.Excerpt, AdminExcerptInput, AdminExcerptInput] {
	return &AdminResource[model.Excerpt, AdminExcerptInput, AdminExcerptInput]{
		Name:   "excerpts",
		Fields: []string{"id", "body", "created_date"},
		List:   excerpts.ListPage,
		Get:    excerpts.Get,
		Create: func(ctx context.Context, in AdminExcerptInput) (*model.Excerpt, error) {
			return excerpts.Create(ctx, in.Body)
		},
		Update: func(ctx context.Context, id uint, in AdminExcerptInput) (*model.Excerpt, error) {
			return excerpts.Update(ctx, id, in.Body)
		},
		Delete: excerpts.Delete,
	}
}

func NewScoreAdminResource(scores *app.ScoreService) *AdminResource[model.Score, AdminScoreInput, AdminScoreInput] {
	return &AdminResource[model.Score, AdminScoreInput, AdminScoreInput]{
		Name:   "scores",
		Fields: []string{"id", "wpm", "time", "excerpt_id", "error_count", "created_date"},
		List:   scores.List,
		Get:    scores.Get,
		Create: func(ctx context.Context, in AdminScoreInput) (*model.Score, error) {
			return scores.Record(ctx, in.toScoreInput())
		},
		Update: func(ctx context.Context, id uint, in AdminScoreInput) (*model.Score, error) {
			return scores.Update(ctx, id, in.toScoreInput())
		},
		Delete: scores.Delete,
	}
}

type AdminHandler struct {
	resources      []AdminMount
	excerptService *app.ExcerptService
}

func NewAdminHandler(excerptService *app.ExcerptService, resources ...AdminMount) *AdminHandler {
	return &AdminHandler{resources: resources, excerptService: excerptService}
}

// Register mounts the index, the PDF import and every resource on group.
func (h *AdminHandler) Register(group *gin.RouterGroup) {
	group.GET("", h.Index)
	group.POST("/excerpts/import", h.ImportExcerpts)
	for _, r := range h.resources {
		r.Mount(group)
	}
}

func (h *AdminHandler) Index(c *gin.Context) {
	resources := make([]gin.H, 0, len(h.resources))
	for _, r := range h.resources {
		resources = append(resources, gin.H{
			"name":   r.ResourceName(),
			"path":   "/admin/" + r.ResourceName(),
			"fields": r.ResourceFields(),
		})
	}
	response.OK(c, gin.H{"resources": resources})
}

func (h *AdminHandler) ImportExcerpts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "multipart field \"file\" is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "open uploaded file failed")
		return
	}
	defer file.Close()

	passages, err := pdfextract.ExtractPassages(file)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "uploaded file is not a readable PDF")
		return
	}

	excerpts, err := h.excerptService.Import(c.Request.Context(), passages)
	if err != nil {
		writeError(c, err, "import excerpts failed")
		return
	}

	ids := make([]uint, 0, len(excerpts))
	for _, e := range excerpts {
		ids = append(ids, e.ID)
	}
	response.Created(c, gin.H{"ids": ids})
}

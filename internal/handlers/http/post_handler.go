package http

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/revistete-backend/internal/handlers/dto"
	"github.com/rafabene/revistete-backend/internal/handlers/middleware"
	"github.com/rafabene/revistete-backend/internal/services"
)

// PostHandler lida com as publicações de roupas
type PostHandler struct {
	postService *services.PostService
	errs        *ErrorResponder
	maxFiles    int
}

// NewPostHandler cria um novo PostHandler. maxFiles limita os arquivos por formulário.
func NewPostHandler(postService *services.PostService, errs *ErrorResponder, maxFiles int) *PostHandler {
	return &PostHandler{postService: postService, errs: errs, maxFiles: maxFiles}
}

// List lista as publicações disponíveis com filtros e paginação
//
//	@Summary	Listar publicações
//	@Tags		posts
//	@Produce	json
//	@Param		category	query		string	false	"Categoria"
//	@Param		size		query		string	false	"Tamanho"
//	@Param		gender		query		string	false	"Gênero"
//	@Param		state		query		string	false	"Estado (new, used)"
//	@Param		featured	query		bool	false	"Só destacadas"
//	@Param		search		query		string	false	"Busca no título e descrição"
//	@Param		page		query		int		false	"Página"
//	@Param		limit		query		int		false	"Itens por página"
//	@Success	200			{object}	dto.PostPageResponse
//	@Failure	400			{object}	dto.ErrorResponse
//	@Router		/posts [get]
func (h *PostHandler) List(c *gin.Context) {
	var query dto.ListPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.errs.RespondBinding(c, err)
		return
	}

	page, err := h.postService.List(c.Request.Context(), query.ToFilters())
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostPageResponse(page))
}

// GetByID devolve uma publicação e incrementa suas visualizações
//
//	@Summary	Detalhe da publicação
//	@Tags		posts
//	@Produce	json
//	@Param		id	path		string	true	"ID da publicação"
//	@Success	200	{object}	dto.PostEnvelope
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/posts/{id} [get]
func (h *PostHandler) GetByID(c *gin.Context) {
	view, err := h.postService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PostEnvelope{
		Envelope: dto.Envelope{Success: true},
		Post:     dto.ToPostResponse(view.Post, view.Owner),
	})
}

// ListByUser lista todas as publicações de um usuário
//
//	@Summary	Publicações de um usuário
//	@Tags		posts
//	@Produce	json
//	@Param		id	path		string	true	"ID do usuário"
//	@Success	200	{object}	dto.PostsEnvelope
//	@Router		/posts/user/{id} [get]
func (h *PostHandler) ListByUser(c *gin.Context) {
	views, err := h.postService.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	posts := dto.ToPostViewResponses(views)
	c.JSON(http.StatusOK, dto.PostsEnvelope{
		Envelope: dto.Envelope{Success: true},
		Count:    len(posts),
		Posts:    posts,
	})
}

// Create publica uma peça. Aceita JSON (photos como URLs) ou multipart
// (photos como arquivos, location como string JSON).
//
//	@Summary	Criar publicação
//	@Tags		posts
//	@Accept		json,mpfd
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.CreatePostRequest	true	"Publicação"
//	@Success	201		{object}	dto.PostEnvelope
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	401		{object}	dto.ErrorResponse
//	@Router		/posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostRequest
	var uploads []services.Upload

	if isMultipart(c) {
		form, ok := h.multipartForm(c)
		if !ok {
			return
		}
		if err := c.ShouldBind(&req); err != nil {
			h.errs.RespondBinding(c, err)
			return
		}
		req.Photos = nonEmpty(form.Value["photos"])
		req.Location = json.RawMessage(firstValue(form.Value["location"]))

		files, closeAll, err := openUploads(form.File["photos"])
		defer closeAll()
		if err != nil {
			h.errs.Respond(c, err)
			return
		}
		uploads = files
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.RespondBinding(c, err)
		return
	}

	location, _, err := dto.ParseLocation(req.Location)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	view, err := h.postService.Create(c.Request.Context(), services.CreatePostInput{
		UserID:        middleware.UserIDFromContext(c),
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Size:          req.Size,
		Gender:        req.Gender,
		State:         req.State,
		PhotoURLs:     req.Photos,
		Uploads:       uploads,
		UploadBaseURL: requestBaseURL(c),
		Location:      location,
	})
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PostEnvelope{
		Envelope: dto.OK(c, "post.created"),
		Post:     dto.ToPostResponse(view.Post, view.Owner),
	})
}

// Update altera uma publicação do chamador. Novos arquivos são anexados a
// existing_photos (ou às fotos atuais quando existing_photos não vem).
//
//	@Summary	Atualizar publicação
//	@Tags		posts
//	@Accept		json,mpfd
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"ID da publicação"
//	@Param		body	body		dto.UpdatePostRequest	true	"Campos alterados"
//	@Success	200		{object}	dto.PostEnvelope
//	@Failure	403		{object}	dto.ErrorResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Router		/posts/{id} [put]
func (h *PostHandler) Update(c *gin.Context) {
	var req dto.UpdatePostRequest
	var uploads []services.Upload

	if isMultipart(c) {
		form, ok := h.multipartForm(c)
		if !ok {
			return
		}
		if err := c.ShouldBind(&req); err != nil {
			h.errs.RespondBinding(c, err)
			return
		}
		if values, present := form.Value["photos"]; present {
			req.Photos = nonEmpty(values)
		}
		if values, present := form.Value["existing_photos"]; present {
			req.ExistingPhotos = parseExistingPhotos(values)
		}
		req.Location = json.RawMessage(firstValue(form.Value["location"]))

		files, closeAll, err := openUploads(form.File["photos"])
		defer closeAll()
		if err != nil {
			h.errs.Respond(c, err)
			return
		}
		uploads = files
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.RespondBinding(c, err)
		return
	}

	location, clearLocation, err := dto.ParseLocation(req.Location)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	view, err := h.postService.Update(c.Request.Context(), services.UpdatePostInput{
		PostID:         c.Param("id"),
		UserID:         middleware.UserIDFromContext(c),
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Size:           req.Size,
		Gender:         req.Gender,
		State:          req.State,
		IsAvailable:    req.IsAvailable,
		ExistingPhotos: req.ExistingPhotos,
		PhotoURLs:      req.Photos,
		Uploads:        uploads,
		UploadBaseURL:  requestBaseURL(c),
		Location:       location,
		ClearLocation:  clearLocation,
	})
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PostEnvelope{
		Envelope: dto.OK(c, "post.updated"),
		Post:     dto.ToPostResponse(view.Post, view.Owner),
	})
}

// Delete remove uma publicação do chamador
//
//	@Summary	Remover publicação
//	@Tags		posts
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID da publicação"
//	@Success	200	{object}	dto.Envelope
//	@Failure	403	{object}	dto.ErrorResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), c.Param("id"), middleware.UserIDFromContext(c)); err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(c, "post.deleted"))
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// multipartForm lê o formulário e recusa mais arquivos que o permitido
func (h *PostHandler) multipartForm(c *gin.Context) (*multipart.Form, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		h.errs.RespondBinding(c, err)
		return nil, false
	}
	if h.maxFiles > 0 && len(form.File["photos"]) > h.maxFiles {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.BadRequestResponseI18n(c, "error.too_many_files", map[string]interface{}{"Max": h.maxFiles}))
		return nil, false
	}
	return form, true
}

func openUploads(headers []*multipart.FileHeader) ([]services.Upload, func(), error) {
	closers := make([]io.Closer, 0, len(headers))
	closeAll := func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}

	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, f)
		uploads = append(uploads, services.Upload{Filename: fh.Filename, Content: f})
	}
	return uploads, closeAll, nil
}

// parseExistingPhotos aceita um array JSON em um único campo ou o campo repetido
func parseExistingPhotos(values []string) []string {
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var urls []string
		if err := json.Unmarshal([]byte(values[0]), &urls); err == nil {
			return nonEmpty(urls)
		}
	}
	return nonEmpty(values)
}

// nonEmpty descarta valores em branco e nunca devolve nil
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// requestBaseURL monta scheme://host da requisição para as URLs dos uploads
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

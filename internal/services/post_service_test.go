package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
	"github.com/rafabene/revistete-backend/internal/infrastructure/persistence/postgres"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func baseCreateInput(userID string) CreatePostInput {
	return CreatePostInput{
		UserID:      userID,
		Title:       "Camiseta azul",
		Description: "Poco uso",
		Category:    "camisetas",
		Size:        "M",
		Gender:      "unisex",
		PhotoURLs:   []string{"https://cdn.example.com/a.jpg"},
	}
}

var _ = Describe("PostService", func() {
	var (
		env   *testEnv
		owner *entities.User
		other *entities.User
	)

	BeforeEach(func() {
		env = newTestEnv()
		owner = env.register("Ana", "ana@example.com")
		other = env.register("Bruno", "bruno@example.com")
	})

	Describe("Create", func() {
		It("persiste com o chamador como dono e estado padrão usado", func() {
			view, err := env.postSvc.Create(env.ctx, baseCreateInput(owner.ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Post.UserID).To(Equal(owner.ID))
			Expect(view.Post.State).To(Equal(entities.StateUsed))
			Expect(view.Post.IsAvailable).To(BeTrue())
			Expect(view.Post.IsFeatured).To(BeFalse())
			Expect(view.Owner.Name).To(Equal("Ana"))
		})

		It("rejeita publicação sem fotos e não persiste nada", func() {
			input := baseCreateInput(owner.ID)
			input.PhotoURLs = []string{}

			_, err := env.postSvc.Create(env.ctx, input)
			Expect(err).To(MatchError(domainerrors.ErrPhotoRequired))
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindValidation))
			Expect(env.countRows(&postgres.PostModel{}, "1 = 1")).To(BeZero())
		})

		It("trata [0,0] como localização ausente", func() {
			input := baseCreateInput(owner.ID)
			input.Location = &LocationInput{Longitude: 0, Latitude: 0, City: "Nowhere"}

			view, err := env.postSvc.Create(env.ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Post.Location).To(BeNil())

			stored, err := env.posts.FindByID(env.ctx, view.Post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Location).To(BeNil())
		})

		It("mantém a ordem [longitude, latitude]", func() {
			input := baseCreateInput(owner.ID)
			input.Location = &LocationInput{Longitude: -3.7038, Latitude: 40.4168, City: "Madrid", Country: "España"}

			view, err := env.postSvc.Create(env.ctx, input)
			Expect(err).NotTo(HaveOccurred())

			stored, err := env.posts.FindByID(env.ctx, view.Post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Location.Coordinates()).To(Equal([2]float64{-3.7038, 40.4168}))
			Expect(stored.Location.City).To(Equal("Madrid"))
		})

		It("rejeita coordenadas fora de faixa", func() {
			input := baseCreateInput(owner.ID)
			input.Location = &LocationInput{Longitude: 200, Latitude: 10}

			_, err := env.postSvc.Create(env.ctx, input)
			Expect(err).To(MatchError(domainerrors.ErrInvalidCoordinates))
		})

		It("valida categoria, tamanho e título", func() {
			input := baseCreateInput(owner.ID)
			input.Category = "sombreros"
			input.Size = "XXXL"
			input.Title = strings.Repeat("a", entities.MaxPostTitleLength+1)

			_, err := env.postSvc.Create(env.ctx, input)
			var de *domainerrors.DomainError
			Expect(domainerrors.As(err, &de)).To(BeTrue())
			Expect(de.Kind).To(Equal(domainerrors.KindValidation))

			tags := map[string]string{}
			for _, f := range de.Fields {
				tags[f.Field] = f.Tag
			}
			Expect(tags).To(HaveKeyWithValue("category", "oneof"))
			Expect(tags).To(HaveKeyWithValue("size", "oneof"))
			Expect(tags).To(HaveKeyWithValue("title", "max"))
		})

		It("prefere arquivos enviados às URLs informadas", func() {
			input := baseCreateInput(owner.ID)
			input.Uploads = []Upload{{Filename: "foto.png", Content: bytes.NewReader(pngBytes)}}
			input.UploadBaseURL = "http://localhost:5000"

			view, err := env.postSvc.Create(env.ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Post.Photos).To(HaveLen(1))
			Expect(view.Post.Photos[0]).To(HavePrefix("http://localhost:5000/uploads/"))

			name := strings.TrimPrefix(view.Post.Photos[0], "http://localhost:5000/uploads/")
			_, err = os.Stat(filepath.Join(env.storage.Dir(), name))
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejeita upload que não é imagem", func() {
			input := baseCreateInput(owner.ID)
			input.Uploads = []Upload{{Filename: "x.png", Content: strings.NewReader("plain text")}}

			_, err := env.postSvc.Create(env.ctx, input)
			Expect(err).To(MatchError(domainerrors.ErrInvalidUpload))
			Expect(env.countRows(&postgres.PostModel{}, "1 = 1")).To(BeZero())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for _, title := range []string{"Vestido rojo", "Camiseta 100% algodón", "Abrigo negro"} {
				env.createPost(owner, title)
			}
			hidden := env.createPost(other, "Vestido oculto")
			hidden.IsAvailable = false
			Expect(env.posts.Update(env.ctx, hidden)).To(Succeed())
		})

		It("só lista disponíveis e calcula páginas", func() {
			page, err := env.postSvc.List(env.ctx, repositories.PostFilters{Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(int64(3)))
			Expect(page.Pages).To(Equal(2))
			Expect(page.Page).To(Equal(1))
			Expect(page.Items).To(HaveLen(2))
			Expect(page.Items[0].Post.Title).To(Equal("Abrigo negro"), "mais recente primeiro")
			Expect(page.Items[0].Owner.ID).To(Equal(owner.ID))
		})

		It("busca sem diferenciar maiúsculas no título e na descrição", func() {
			page, err := env.postSvc.List(env.ctx, repositories.PostFilters{Search: "VESTIDO"})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(1))
			Expect(page.Items[0].Post.Title).To(Equal("Vestido rojo"))

			page, err = env.postSvc.List(env.ctx, repositories.PostFilters{Search: "buen estado"})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(int64(3)))
		})

		It("trata curingas da busca como texto", func() {
			page, err := env.postSvc.List(env.ctx, repositories.PostFilters{Search: "100%"})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(1))

			page, err = env.postSvc.List(env.ctx, repositories.PostFilters{Search: "%"})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(1))
		})

		It("filtra por destaque", func() {
			featured := true
			page, err := env.postSvc.List(env.ctx, repositories.PostFilters{Featured: &featured})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(BeZero())
			Expect(page.Pages).To(BeZero())
		})
	})

	Describe("GetByID", func() {
		It("incrementa as visualizações a cada leitura", func() {
			post := env.createPost(owner, "Camiseta")

			first, err := env.postSvc.GetByID(env.ctx, post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Post.Views).To(Equal(int64(1)))

			second, err := env.postSvc.GetByID(env.ctx, post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Post.Views).To(Equal(int64(2)))
		})

		It("devolve not found e erro de validação para IDs", func() {
			_, err := env.postSvc.GetByID(env.ctx, "00000000-0000-0000-0000-000000000000")
			Expect(err).To(MatchError(domainerrors.ErrPostNotFound))

			_, err = env.postSvc.GetByID(env.ctx, "abc")
			Expect(err).To(MatchError(domainerrors.ErrInvalidID))
		})
	})

	Describe("ListByUser", func() {
		It("lista somente as disponíveis do usuário", func() {
			env.createPost(owner, "Uno")
			env.createPost(owner, "Dos")
			env.createPost(other, "Tres")

			views, err := env.postSvc.ListByUser(env.ctx, owner.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(views).To(HaveLen(2))
			Expect(views[0].Post.Title).To(Equal("Dos"))
		})
	})

	Describe("Update", func() {
		var post *entities.Post

		BeforeEach(func() {
			input := baseCreateInput(owner.ID)
			input.Location = &LocationInput{Longitude: -3.7, Latitude: 40.4, City: "Madrid", Country: "España"}
			view, err := env.postSvc.Create(env.ctx, input)
			Expect(err).NotTo(HaveOccurred())
			post = view.Post
		})

		It("bloqueia quem não é dono", func() {
			title := "Hackeado"
			_, err := env.postSvc.Update(env.ctx, UpdatePostInput{PostID: post.ID, UserID: other.ID, Title: &title})
			Expect(err).To(MatchError(domainerrors.ErrNotPostOwner))
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindAuthorization))

			stored, err := env.posts.FindByID(env.ctx, post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Title).To(Equal("Camiseta azul"))
		})

		It("anexa uploads às fotos atuais", func() {
			view, err := env.postSvc.Update(env.ctx, UpdatePostInput{
				PostID:        post.ID,
				UserID:        owner.ID,
				Uploads:       []Upload{{Filename: "b.png", Content: bytes.NewReader(pngBytes)}},
				UploadBaseURL: "http://localhost:5000",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Post.Photos).To(HaveLen(2))
			Expect(view.Post.Photos[0]).To(Equal("https://cdn.example.com/a.jpg"))
			Expect(view.Post.Photos[1]).To(HavePrefix("http://localhost:5000/uploads/"))
		})

		It("substitui as fotos pelas existentes informadas", func() {
			view, err := env.postSvc.Update(env.ctx, UpdatePostInput{
				PostID:         post.ID,
				UserID:         owner.ID,
				ExistingPhotos: []string{"https://cdn.example.com/b.jpg"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Post.Photos).To(Equal([]string{"https://cdn.example.com/b.jpg"}))
		})

		It("apaga do disco os uploads que saem da lista de fotos", func() {
			view, err := env.postSvc.Update(env.ctx, UpdatePostInput{
				PostID:        post.ID,
				UserID:        owner.ID,
				Uploads:       []Upload{{Filename: "b.png", Content: bytes.NewReader(pngBytes)}},
				UploadBaseURL: "http://localhost:5000",
			})
			Expect(err).NotTo(HaveOccurred())
			uploadedURL := view.Post.Photos[1]
			name := strings.TrimPrefix(uploadedURL, "http://localhost:5000/uploads/")
			_, err = os.Stat(filepath.Join(env.storage.Dir(), name))
			Expect(err).NotTo(HaveOccurred())

			view, err = env.postSvc.Update(env.ctx, UpdatePostInput{
				PostID:         post.ID,
				UserID:         owner.ID,
				ExistingPhotos: []string{"https://cdn.example.com/a.jpg"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Post.Photos).To(Equal([]string{"https://cdn.example.com/a.jpg"}))
			_, err = os.Stat(filepath.Join(env.storage.Dir(), name))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("mantém no disco os uploads que continuam na lista", func() {
			view, err := env.postSvc.Update(env.ctx, UpdatePostInput{
				PostID:        post.ID,
				UserID:        owner.ID,
				Uploads:       []Upload{{Filename: "b.png", Content: bytes.NewReader(pngBytes)}},
				UploadBaseURL: "http://localhost:5000",
			})
			Expect(err).NotTo(HaveOccurred())
			name := strings.TrimPrefix(view.Post.Photos[1], "http://localhost:5000/uploads/")

			title := "Camiseta azul marino"
			_, err = env.postSvc.Update(env.ctx, UpdatePostInput{PostID: post.ID, UserID: owner.ID, Title: &title})
			Expect(err).NotTo(HaveOccurred())
			_, err = os.Stat(filepath.Join(env.storage.Dir(), name))
			Expect(err).NotTo(HaveOccurred())
		})

		It("não deixa a publicação sem fotos", func() {
			_, err := env.postSvc.Update(env.ctx, UpdatePostInput{
				PostID:         post.ID,
				UserID:         owner.ID,
				ExistingPhotos: []string{},
			})
			Expect(err).To(MatchError(domainerrors.ErrPhotoRequired))
		})

		It("remove a localização quando pedido", func() {
			view, err := env.postSvc.Update(env.ctx, UpdatePostInput{PostID: post.ID, UserID: owner.ID, ClearLocation: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Post.Location).To(BeNil())

			stored, err := env.posts.FindByID(env.ctx, post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Location).To(BeNil())
		})

		It("preserva cidade e país ao mover o ponto", func() {
			view, err := env.postSvc.Update(env.ctx, UpdatePostInput{
				PostID:   post.ID,
				UserID:   owner.ID,
				Location: &LocationInput{Longitude: -3.71, Latitude: 40.42},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Post.Location.Coordinates()).To(Equal([2]float64{-3.71, 40.42}))
			Expect(view.Post.Location.City).To(Equal("Madrid"))
		})

		It("altera disponibilidade e mantém visualizações", func() {
			_, err := env.postSvc.GetByID(env.ctx, post.ID)
			Expect(err).NotTo(HaveOccurred())

			available := false
			_, err = env.postSvc.Update(env.ctx, UpdatePostInput{PostID: post.ID, UserID: owner.ID, IsAvailable: &available})
			Expect(err).NotTo(HaveOccurred())

			stored, err := env.posts.FindByID(env.ctx, post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.IsAvailable).To(BeFalse())
			Expect(stored.Views).To(Equal(int64(1)))
		})
	})

	Describe("Delete", func() {
		It("bloqueia quem não é dono e mantém a publicação", func() {
			post := env.createPost(owner, "Camiseta")

			err := env.postSvc.Delete(env.ctx, post.ID, other.ID)
			Expect(err).To(MatchError(domainerrors.ErrNotPostOwner))

			stored, err := env.posts.FindByID(env.ctx, post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).NotTo(BeNil())
		})

		It("remove a publicação e os arquivos locais", func() {
			input := baseCreateInput(owner.ID)
			input.Uploads = []Upload{{Filename: "foto.png", Content: bytes.NewReader(pngBytes)}}
			input.UploadBaseURL = "http://localhost:5000"
			view, err := env.postSvc.Create(env.ctx, input)
			Expect(err).NotTo(HaveOccurred())
			name := strings.TrimPrefix(view.Post.Photos[0], "http://localhost:5000/uploads/")

			Expect(env.postSvc.Delete(env.ctx, view.Post.ID, owner.ID)).To(Succeed())

			stored, err := env.posts.FindByID(env.ctx, view.Post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(BeNil())
			_, err = os.Stat(filepath.Join(env.storage.Dir(), name))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})
})

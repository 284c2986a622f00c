package entities

// Category representa a categoria de uma peça de roupa
type Category string

const (
	CategoryShirts      Category = "camisetas"
	CategoryTrousers    Category = "pantalones"
	CategoryDresses     Category = "vestidos"
	CategoryCoats       Category = "abrigos"
	CategoryShoes       Category = "zapatos"
	CategoryAccessories Category = "accesorios"
)

// Size representa o tamanho da peça
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// Gender representa o público da peça
type Gender string

const (
	GenderMen    Gender = "hombre"
	GenderWomen  Gender = "mujer"
	GenderUnisex Gender = "unisex"
	GenderBoy    Gender = "niño"
	GenderGirl   Gender = "niña"
)

// State representa o estado de conservação da peça
type State string

const (
	StateNew  State = "new"
	StateUsed State = "used"
)

// Categories lista as categorias aceitas
var Categories = []Category{
	CategoryShirts, CategoryTrousers, CategoryDresses,
	CategoryCoats, CategoryShoes, CategoryAccessories,
}

// Sizes lista os tamanhos aceitos
var Sizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}

// Genders lista os públicos aceitos
var Genders = []Gender{GenderMen, GenderWomen, GenderUnisex, GenderBoy, GenderGirl}

// States lista os estados aceitos
var States = []State{StateNew, StateUsed}

// IsValid verifica se a categoria pertence à enumeração
func (c Category) IsValid() bool {
	return contains(Categories, c)
}

// IsValid verifica se o tamanho pertence à enumeração
func (s Size) IsValid() bool {
	return contains(Sizes, s)
}

// IsValid verifica se o público pertence à enumeração
func (g Gender) IsValid() bool {
	return contains(Genders, g)
}

// IsValid verifica se o estado pertence à enumeração
func (s State) IsValid() bool {
	return contains(States, s)
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

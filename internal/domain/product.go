package domain

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       Money  `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"imageUrl"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

type ProductPage struct {
	Content    []Product `json:"content"`
	Page       int       `json:"page"`
	Size       int       `json:"size"`
	TotalPages int       `json:"totalPages"`
	Total      int       `json:"total"`
	HasNext    bool      `json:"hasNext"`
}

type ProductQuery struct {
	Page    int
	Size    int
	Keyword string
}

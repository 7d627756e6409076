package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"404"`
	Category string `json:"category" example:"NOT_FOUND"`
	Message  string `json:"message" example:"No products found"`
}

// MessageResponse é a resposta simples usada em remoções e no endpoint raiz.
type MessageResponse struct {
	Message string `json:"message" example:"Product 1 deleted successfully"`
}

package models

type Coin struct {
	ID        string  `yaml:"id" json:"id"`
	Name      string  `yaml:"name" json:"name"`
	Symbol    string  `yaml:"symbol" json:"symbol"`
	Price     float64 `yaml:"price" json:"price"`
	Change24h float64 `yaml:"change_24h" json:"change24h"`
	MarketCap string  `yaml:"market_cap" json:"marketCap"`
	Volume    string  `yaml:"volume" json:"volume"`
}

type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

package categories

// Default returns the built-in keyword table used when no categories file is
// configured or the configured one cannot be loaded.
func Default() *Table {
	return MustNew([]Entry{
		{Name: "market", Keywords: []string{"benedete", "imperio", "market", "delta", "assai", "lojao", "americanas"}},
		{Name: "health", Keywords: []string{"drogal", "remedio", "saude", "raia", "drogasil", "pague menos"}},
		{Name: "online services", Keywords: []string{"netflix", "youtube premium", "google one", "ifood", "microsoft", "office", "apple", "melimais"}},
		{Name: "restaurants", Keywords: []string{"restaurante", "burger", "mcdonalds", "kissburgers", "lanchonete", "esfirraria", "churros"}},
		{Name: "automotive", Keywords: []string{"posto", "nutag", "abastece", "abasteceai", "estacionamento", "f park"}},
		{Name: "taxes", Keywords: []string{"pagamento recebido", "txentregvisto"}},
	})
}

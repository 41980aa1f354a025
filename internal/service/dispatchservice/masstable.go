package dispatchservice

import "strings"

// MassFactorKg converte o rótulo livre da unidade de varejo de um produto em
// um fator de quilogramas. Reconhece as grafias usuais (pt/en) de quilograma
// e grama, de forma insensível a caixa, acento e pontuação. Qualquer outro
// rótulo (litros, peças, desconhecido) retorna 0: o produto não contribui
// peso no cálculo de capacidade. É o padrão conservador: uma unidade não
// pesável nunca dispara uma violação de capacidade falsa.
func MassFactorKg(label string) float64 {
	switch normalizeUnit(label) {
	case "kg", "kgs",
		"kilo", "kilos", "quilo", "quilos",
		"kilogram", "kilograms", "kilograma", "kilogramas",
		"quilograma", "quilogramas":
		return 1
	case "g", "gr", "grama", "gramas", "gram", "grams":
		return 0.001
	default:
		return 0
	}
}

// accentReplacer remove os acentos que aparecem nos rótulos digitados pelos
// operadores ("quilô", "gramá" etc.).
var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u",
	"ç", "c",
)

// normalizeUnit reduz o rótulo a letras minúsculas sem acento: espaços,
// pontos e qualquer outra pontuação são descartados ("Kg." -> "kg").
func normalizeUnit(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = accentReplacer.Replace(s)

	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package dispatchservice

import (
	"errors"
	"math"

	"goentrega/internal/domain"
)

// PriceTolerance é a tolerância absoluta entre o preço cobrado e o preço de
// referência, para absorver arredondamentos de descontos aplicados antes da
// venda.
const PriceTolerance = 0.25

// ErrCannotInferUnitKind indica que a linha não pôde ser classificada como
// venda de varejo nem de pacote. É uma falha dura de validação: o motor
// nunca prossegue com um "melhor palpite".
var ErrCannotInferUnitKind = errors.New("não foi possível inferir o tipo de unidade da venda")

// InferUnitKind classifica uma linha de venda como varejo ou pacote.
//
// Vendas novas persistem o tipo explicitamente em OrderLine.UnitKind e são
// usadas como estão. Para registros legados (UnitKind nil) o tipo é inferido
// do preço cobrado contra os preços de referência ATUAIS do catálogo:
//
//  1. varejo, se o produto permite venda fracionada, tem preço de varejo e
//     |pago − varejo| <= tolerância (varejo ganha o empate quando os dois
//     preços de referência casam);
//  2. senão pacote, se há preço de pacote e |pago − pacote| <= tolerância;
//  3. senão pacote, se há preço de pacote (o pacote é o padrão do catálogo
//     quando o preço não casa com nenhuma referência);
//  4. senão ErrCannotInferUnitKind.
//
// A classificação nunca é persistida aqui: é recalculada a cada despacho, o
// que significa que reprecificar um produto entre a venda e o despacho pode
// mudar a inferência histórica (limitação aceita, não defeito a corrigir).
func InferUnitKind(line domain.OrderLine, product domain.Product) (domain.UnitKind, error) {
	if line.UnitKind != nil && line.UnitKind.IsValid() {
		return *line.UnitKind, nil
	}

	paid := line.UnitPriceAtSale

	if product.AllowRetailSale && product.RetailUnitPrice > 0 &&
		math.Abs(paid-product.RetailUnitPrice) <= PriceTolerance {
		return domain.UnitKindRetail, nil
	}

	if product.PackUnitPrice > 0 && math.Abs(paid-product.PackUnitPrice) <= PriceTolerance {
		return domain.UnitKindPack, nil
	}

	// Nenhuma tolerância casou: pacote é a premissa padrão quando ambíguo.
	if product.PackUnitPrice > 0 {
		return domain.UnitKindPack, nil
	}

	return "", ErrCannotInferUnitKind
}

package dispatchservice

import (
	"fmt"
	"sort"

	"goentrega/internal/domain"
)

const reasonProductMissing = "produto não encontrado ou inativo"

// AggregateDeltas percorre todas as linhas de todos os pedidos vinculados à
// rota, mais as linhas da carga avulsa, e acumula por produto o consumo de
// pacotes e de unidades de varejo.
//
// Linhas classificadas como varejo consomem RetailUnits; como pacote,
// PackUnits. Linhas da carga avulsa são sempre pacote fechado, por
// construção. Linhas cujo produto não resolve (removido/inativo) geram um
// erro por linha e ABORTAM a agregação: uma agregação parcial nunca serve de
// base para decremento parcial de estoque.
func AggregateDeltas(
	orders []domain.Order,
	loadout []domain.LoadoutLine,
	products map[string]domain.Product,
) (map[string]domain.StockDelta, []domain.LineError) {
	deltas := make(map[string]domain.StockDelta)
	var lineErrs []domain.LineError

	for _, order := range orders {
		for _, line := range order.Lines {
			p, ok := products[line.ProductID]
			if !ok {
				lineErrs = append(lineErrs, domain.LineError{
					ProductID: line.ProductID,
					Reason:    reasonProductMissing,
				})
				continue
			}

			kind, err := InferUnitKind(line, p)
			if err != nil {
				lineErrs = append(lineErrs, domain.LineError{
					ProductID: line.ProductID,
					Reason:    err.Error(),
				})
				continue
			}

			d := deltas[line.ProductID]
			switch kind {
			case domain.UnitKindRetail:
				d.RetailUnits += line.Quantity
			case domain.UnitKindPack:
				d.PackUnits += line.Quantity
			}
			deltas[line.ProductID] = d
		}
	}

	for _, line := range loadout {
		if _, ok := products[line.ProductID]; !ok {
			lineErrs = append(lineErrs, domain.LineError{
				ProductID: line.ProductID,
				Reason:    reasonProductMissing,
			})
			continue
		}

		d := deltas[line.ProductID]
		d.PackUnits += line.Quantity
		deltas[line.ProductID] = d
	}

	if len(lineErrs) > 0 {
		return nil, lineErrs
	}
	return deltas, nil
}

// ValidateStock compara os deltas agregados com os saldos atuais de cada
// produto. Coleta UMA entrada por falta (pool de pacotes e pool de varejo
// são reportados separadamente) e nunca para na primeira falha; a tela de
// preparação precisa da lista completa para corrigir a carga em uma ida só.
// A ordem do resultado é determinística (produtos em ordem de id).
func ValidateStock(
	deltas map[string]domain.StockDelta,
	products map[string]domain.Product,
) []domain.LineError {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs []domain.LineError
	for _, id := range ids {
		d := deltas[id]
		p, ok := products[id]
		if !ok {
			// A agregação só produz deltas para produtos resolvidos.
			errs = append(errs, domain.LineError{ProductID: id, Reason: reasonProductMissing})
			continue
		}

		if d.PackUnits > p.PackStock {
			errs = append(errs, domain.LineError{
				ProductID: id,
				Mode:      domain.UnitKindPack,
				Reason:    fmt.Sprintf("estoque de pacotes insuficiente: necessário %d, disponível %d", d.PackUnits, p.PackStock),
			})
		}
		if d.RetailUnits > p.RetailStock {
			errs = append(errs, domain.LineError{
				ProductID: id,
				Mode:      domain.UnitKindRetail,
				Reason:    fmt.Sprintf("estoque de varejo insuficiente: necessário %d, disponível %d", d.RetailUnits, p.RetailStock),
			})
		}
	}
	return errs
}

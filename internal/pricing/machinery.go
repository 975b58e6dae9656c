package pricing

import "github.com/shopspring/decimal"

// dailyRateHourThreshold is the minimum booked hours before the daily rate
// is even considered. Below it the hourly branch is forced regardless of
// which rate is cheaper.
var dailyRateHourThreshold = decimal.NewFromInt(8)

// ComputeMachinery chooses between hourly and daily billing per machine and
// adds operator cost where required.
//
// Decision rule: the daily rate applies only when hours >= 8 AND it is
// strictly cheaper than hourly billing. Ties resolve to hourly — only switch
// when it is better. Operator cost is always a separate line item, never
// merged into the machine's own line, so the breakdown stays auditable.
func ComputeMachinery(items []MachineryInput) ([]LineItem, error) {
	out := make([]LineItem, 0, len(items))

	for _, m := range items {
		if !m.Hours.IsPositive() {
			return nil, &ValidationError{Field: "hours", RefID: m.MachineryID, Msg: "must be greater than zero"}
		}

		hourlyTotal := m.HourlyRate.Mul(m.Hours)
		useDaily := m.Hours.GreaterThanOrEqual(dailyRateHourThreshold) && m.DailyRate.LessThan(hourlyTotal)

		machineItem := LineItem{
			Category:    CategoryMachinery,
			RefID:       m.MachineryID,
			Description: m.Description,
			Quantity:    m.Hours,
			UnitRate:    m.HourlyRate,
			Amount:      hourlyTotal,
		}
		if useDaily {
			machineItem.Quantity = decimal.NewFromInt(1)
			machineItem.UnitRate = m.DailyRate
			machineItem.Amount = m.DailyRate
		}
		out = append(out, machineItem)

		if m.RequiresOperator {
			if m.OperatorHourlyRate == nil {
				return nil, &ValidationError{Field: "operator_hourly_rate", RefID: m.MachineryID, Msg: "machine requires an operator but no operator rate is set"}
			}
			out = append(out, LineItem{
				Category:    CategoryMachinery,
				RefID:       m.MachineryID,
				Description: m.Description + " (operator)",
				Quantity:    m.Hours,
				UnitRate:    *m.OperatorHourlyRate,
				Amount:      m.OperatorHourlyRate.Mul(m.Hours),
			})
		}
	}

	return out, nil
}

package service

import (
	"inside_value_bot/internal/helper"
	"inside_value_bot/internal/models"
)

// Classify проверяет inside-value по двум наборам уравнений.
// Бычий Set1: value-зона текущего бара строго внутри вчерашней;
// Set2 — все четыре сравнения зеркальны. Медвежьи наборы — это бычьи
// с переставленными Set1/Set2, поэтому один классификатор на оба направления.
// Равенство уровней паттерном не считается.
func Classify(prev, curr models.Bar, dir models.Direction) models.PatternCheck {
	p := prev.Value()
	c := curr.Value()

	set1 := p.Bottom < c.Top &&
		p.Bottom < c.Bottom &&
		p.Top > c.Top &&
		p.Top > c.Bottom

	set2 := p.Bottom > c.Top &&
		p.Bottom > c.Bottom &&
		p.Top < c.Top &&
		p.Top < c.Bottom

	if dir == models.DirectionBearish {
		set1, set2 = set2, set1
	}

	return models.PatternCheck{Set1: set1, Set2: set2}
}

// EntryThreshold — порог входа от вчерашней медианы: +1% для бычьего,
// -1% для медвежьего, с округлением к шагу цены.
func EntryThreshold(dir models.Direction, prev models.Bar, tick float64) float64 {
	median := prev.Value().Median

	var raw float64
	if dir == models.DirectionBullish {
		raw = median * 1.01
	} else {
		raw = median * 0.99
	}

	return helper.RoundToTick(raw, tick)
}

// Crossed — пересечение порога в сторону направления (включительно).
func Crossed(dir models.Direction, ltp, threshold float64) bool {
	if ltp <= 0 || threshold <= 0 {
		return false
	}
	if dir == models.DirectionBullish {
		return ltp >= threshold
	}
	return ltp <= threshold
}

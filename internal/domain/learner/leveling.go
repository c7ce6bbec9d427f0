package learner

import "math"

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// XP представляет накопленные очки опыта учащегося.
type XP int

// IsValid проверяет, что XP неотрицательный.
func (x XP) IsValid() bool {
	return x >= 0
}

// Add складывает XP, не опускаясь ниже нуля.
func (x XP) Add(delta XP) XP {
	sum := x + delta
	if sum < 0 {
		return 0
	}
	return sum
}

// Int возвращает значение как int.
func (x XP) Int() int {
	return int(x)
}

// Level представляет уровень учащегося, выводимый из XP.
type Level int

// Int возвращает значение как int.
func (l Level) Int() int {
	return int(l)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEVELING CALCULATOR
// Чистые, детерминированные функции. Верхней границы уровня нет.
// ══════════════════════════════════════════════════════════════════════════════

// xpPerLevelUnit - базовая стоимость уровня в формуле level = floor(sqrt(xp/50)) + 1.
const xpPerLevelUnit = 50

// LevelForXP вычисляет уровень по накопленному XP.
// Монотонно не убывает по xp; минимальный уровень 1.
func LevelForXP(xp XP) Level {
	if xp < 0 {
		return 1
	}
	return Level(math.Sqrt(float64(xp)/xpPerLevelUnit)) + 1
}

// XPRequiredForLevel возвращает суммарный XP, необходимый чтобы перейти
// С указанного уровня на следующий: level^2 * 50.
func XPRequiredForLevel(level Level) XP {
	if level < 1 {
		level = 1
	}
	return XP(int(level) * int(level) * xpPerLevelUnit)
}

// XPToNextLevel возвращает, сколько XP осталось до следующего уровня.
// Всегда >= 0, поскольку уровень сам выводится из totalXP.
func XPToNextLevel(totalXP XP) XP {
	remaining := XPRequiredForLevel(LevelForXP(totalXP)) - totalXP
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Package validation normaliza la entrada de los clientes antes de que llegue al libro.
// Limpia y recorta textos, canoniza códigos y unidades y acota cantidades.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventario-silo/internal/domain"
)

// Límites de longitud.
const (
	MaxCodeLength         = 25
	MaxUnitLength         = 10
	MaxNameLength         = 60
	MaxCounterpartyLength = 60
	MaxDescriptionLength  = 140
	MaxNotesLength        = 220
)

// Límites de cantidades.
var (
	ItemMinStock        = decimal.Zero
	ItemMaxStock        = decimal.NewFromInt(999_999)
	MovementMinQuantity = decimal.RequireFromString("0.01")
	MovementMaxQuantity = decimal.NewFromInt(999_999)
)

var (
	codeStrip       = regexp.MustCompile(`[^A-Z0-9-]`)
	codeStripSpaces = regexp.MustCompile(`[^A-Z0-9-\s]`)
	whitespace      = regexp.MustCompile(`\s+`)
	plainText       = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚÜÑáéíóúüñ0-9.,()/'\-\s]+$`)
	plainTextStrip  = regexp.MustCompile(`[^A-Za-zÁÉÍÓÚÜÑáéíóúüñ0-9.,()/'\-\s]`)
	usernameAllowed = regexp.MustCompile(`^[a-z0-9._-]{3,40}$`)
)

// units mapea la forma en mayúsculas a la grafía canónica.
var units = map[string]string{
	"LT":    "Lt",
	"KG":    "Kg",
	"MTS":   "Mts",
	"UND":   "Und",
	"QQ":    "QQ",
	"PQTES": "Pqtes",
	"PZAS":  "Pzas",
	"MT2":   "Mt2",
	"MT3":   "Mt3",
}

// ID exige un UUID.
func ID(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.NewValidation(field, "el identificador es obligatorio")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return "", &domain.InvalidIdentifierError{Field: field, Value: value}
	}
	return id.String(), nil
}

// OptionalID acepta vacío; si viene, debe ser un UUID.
func OptionalID(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return ID(field, value)
}

// Code pasa a mayúsculas y descarta todo lo que no sea letra, dígito o guion
// (y espacios simples si allowSpaces). Recorta a maxLength.
func Code(field, value string, maxLength int, allowSpaces bool) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", domain.NewValidation(field, "este campo es obligatorio")
	}
	upper := strings.ToUpper(value)
	var normalized string
	if allowSpaces {
		normalized = codeStripSpaces.ReplaceAllString(upper, "")
		normalized = strings.TrimSpace(whitespace.ReplaceAllString(normalized, " "))
	} else {
		normalized = codeStrip.ReplaceAllString(upper, "")
	}
	if normalized == "" {
		if allowSpaces {
			return "", domain.NewValidation(field, "usa letras, números, guiones o espacios")
		}
		return "", domain.NewValidation(field, "usa únicamente letras, números o guiones")
	}
	return truncate(normalized, maxLength), nil
}

// Unit devuelve la grafía canónica de una unidad permitida.
func Unit(field, value string) (string, error) {
	normalized, err := Code(field, value, MaxUnitLength, false)
	if err != nil {
		return "", err
	}
	canonical, ok := units[normalized]
	if !ok {
		return "", domain.NewValidation(field, "selecciona una unidad válida (Lt, Kg, Mts, Und, QQ, Pqtes, Pzas, Mt2 o Mt3)")
	}
	return canonical, nil
}

// TextOptions ajusta la normalización de textos libres.
type TextOptions struct {
	TitleCase    bool
	AllowAnyChar bool
}

// Text colapsa espacios, valida caracteres y recorta. Es obligatorio.
func Text(field, value string, maxLength int, opts TextOptions) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", domain.NewValidation(field, "este campo es obligatorio")
	}
	normalized := whitespace.ReplaceAllString(strings.TrimSpace(value), " ")
	if !opts.AllowAnyChar && !plainText.MatchString(normalized) {
		return "", domain.NewValidation(field, "se encontraron caracteres no permitidos")
	}
	normalized = truncate(normalized, maxLength)
	if opts.TitleCase {
		normalized = cases.Title(language.Spanish).String(strings.ToLower(normalized))
	}
	return normalized, nil
}

// OptionalText devuelve "" si no hay contenido; si no, limpia y recorta.
func OptionalText(value string, maxLength int, allowAnyChar bool) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	normalized := whitespace.ReplaceAllString(strings.TrimSpace(value), " ")
	if !allowAnyChar {
		normalized = plainTextStrip.ReplaceAllString(normalized, "")
	}
	return truncate(normalized, maxLength)
}

// Quantity valida el rango [min, max] y redondea a dos decimales.
func Quantity(field string, value, min, max decimal.Decimal) (decimal.Decimal, error) {
	if value.LessThan(min) || value.GreaterThan(max) {
		return decimal.Zero, domain.NewValidation(field, "ingresa un número entre %s y %s", min.String(), max.String())
	}
	return value.Round(2), nil
}

// Username pasa a minúsculas y restringe el alfabeto.
func Username(field, value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if !usernameAllowed.MatchString(normalized) {
		return "", domain.NewValidation(field, "de 3 a 40 caracteres: letras, números, punto, guion o guion bajo")
	}
	return normalized, nil
}

// Password exige un mínimo de seis caracteres.
func Password(field, value string) error {
	if utf8.RuneCountInString(value) < 6 {
		return domain.NewValidation(field, "la contraseña debe tener al menos 6 caracteres")
	}
	return nil
}

func truncate(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:maxLength]))
}

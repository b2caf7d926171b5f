// Package money formatea y opera pesos enteros. El dominio no maneja
// centavos, así que no hay tolerancia de redondeo que cuidar.
package money

import "strconv"

// Format agrega separador de miles con punto: 1234567 -> "1.234.567".
func Format(valor int64) string {
	neg := valor < 0
	if neg {
		valor = -valor
	}
	s := strconv.FormatInt(valor, 10)

	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// Subtotal de una línea: cantidad por precio unitario.
func Subtotal(cantidad int, precioUnitario int64) int64 {
	return int64(cantidad) * precioUnitario
}

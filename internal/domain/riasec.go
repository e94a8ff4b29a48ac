package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Dimension es una de las seis categorias RIASEC.
type Dimension int

const (
	Realistic Dimension = iota
	Investigative
	Artistic
	Social
	Enterprising
	Conventional
)

// NumDimensions es la cantidad fija de dimensiones del perfil.
const NumDimensions = 6

// Dimensions respeta el orden canonico R, I, A, S, E, C. Los vectores de
// referencia del catalogo se comparan posicionalmente contra este orden.
var Dimensions = [NumDimensions]Dimension{Realistic, Investigative, Artistic, Social, Enterprising, Conventional}

var dimensionLetters = [NumDimensions]string{"R", "I", "A", "S", "E", "C"}

var dimensionNames = [NumDimensions]string{"Realista", "Investigador", "Artístico", "Social", "Emprendedor", "Convencional"}

// Sinonimos aceptados en tags de categoria y nombres de columnas.
var dimensionSynonyms = map[string]Dimension{
	"R": Realistic, "REALISTA": Realistic, "REALISTIC": Realistic,
	"I": Investigative, "INVESTIGATIVO": Investigative, "INVESTIGATIVE": Investigative, "INVESTIGADOR": Investigative,
	"A": Artistic, "ARTISTICO": Artistic, "ARTÍSTICO": Artistic, "ARTISTIC": Artistic,
	"S": Social, "SOCIAL": Social,
	"E": Enterprising, "EMPRENDEDOR": Enterprising, "ENTERPRISING": Enterprising,
	"C": Conventional, "CONVENCIONAL": Conventional, "CONVENTIONAL": Conventional,
}

func (d Dimension) Valid() bool {
	return d >= 0 && int(d) < NumDimensions
}

// Letter devuelve la letra RIASEC ("R", "I", ...).
func (d Dimension) Letter() string {
	if !d.Valid() {
		return "?"
	}
	return dimensionLetters[d]
}

func (d Dimension) Name() string {
	if !d.Valid() {
		return ""
	}
	return dimensionNames[d]
}

func (d Dimension) String() string {
	return d.Letter()
}

// ParseDimension resuelve una letra o sinonimo (es/en) a su dimension.
func ParseDimension(s string) (Dimension, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if key == "" {
		return 0, false
	}
	d, ok := dimensionSynonyms[key]
	return d, ok
}

// DimensionFromCategory interpreta tags de pregunta del tipo "riasec_R" o
// "riasec_realista". Cualquier otro tag no aporta a ninguna dimension.
func DimensionFromCategory(category string) (Dimension, bool) {
	category = strings.TrimSpace(category)
	if !strings.HasPrefix(strings.ToLower(category), "riasec_") {
		return 0, false
	}
	idx := strings.LastIndex(category, "_")
	return ParseDimension(category[idx+1:])
}

// Profile es el vector de intereses normalizado, indexado por Dimension.
// Las seis claves siempre existen; los valores se recortan a [0,1].
type Profile [NumDimensions]float64

func (p Profile) Get(d Dimension) float64 {
	if !d.Valid() {
		return 0
	}
	return p[d]
}

// Clamp recorta cada valor a [0,1] y reemplaza NaN por 0.
func (p Profile) Clamp() Profile {
	var out Profile
	for i, v := range p {
		out[i] = Clamp01(v)
	}
	return out
}

// Round redondea cada valor a la cantidad de decimales indicada.
func (p Profile) Round(decimals int) Profile {
	var out Profile
	for i, v := range p {
		out[i] = RoundTo(v, decimals)
	}
	return out
}

// Top devuelve las n dimensiones con mayor puntaje. Los empates se resuelven
// por el orden canonico.
func (p Profile) Top(n int) []Dimension {
	dims := make([]Dimension, NumDimensions)
	copy(dims, Dimensions[:])
	sort.SliceStable(dims, func(i, j int) bool {
		return p[dims[i]] > p[dims[j]]
	})
	if n < 0 {
		n = 0
	}
	if n > NumDimensions {
		n = NumDimensions
	}
	return dims[:n]
}

// Map devuelve el perfil como letra -> valor.
func (p Profile) Map() map[string]float64 {
	out := make(map[string]float64, NumDimensions)
	for _, d := range Dimensions {
		out[d.Letter()] = p[d]
	}
	return out
}

// MarshalJSON serializa en orden canonico: {"R":..,"I":..,"A":..,"S":..,"E":..,"C":..}.
func (p Profile) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range Dimensions {
		if i > 0 {
			buf.WriteByte(',')
		}
		v := p[d]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		buf.WriteString(strconv.Quote(d.Letter()))
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	var out Profile
	for k, v := range raw {
		d, ok := ParseDimension(k)
		if !ok {
			continue
		}
		out[d] = v
	}
	*p = out
	return nil
}

// Clamp01 recorta a [0,1]; NaN se considera 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func RoundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

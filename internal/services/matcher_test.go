package services

import (
	"testing"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMatchesKeywords(t *testing.T) {
	tests := []struct {
		name    string
		raw     models.RawTender
		include []string
		exclude []string
		want    bool
	}{
		{
			name:    "include matches",
			raw:     summary("1", "Desarrollo de Software", "Plataforma web"),
			include: []string{"software"},
			want:    true,
		},
		{
			name:    "exclude wins over include",
			raw:     summary("1", "Software de limpieza", ""),
			include: []string{"software"},
			exclude: []string{"limpieza"},
			want:    false,
		},
		{
			name: "empty include accepts everything",
			raw:  summary("1", "Compra de sillas", ""),
			want: true,
		},
		{
			name:    "empty include still honours exclude",
			raw:     summary("1", "Servicio de aseo", ""),
			exclude: []string{"aseo"},
			want:    false,
		},
		{
			name:    "no include matches",
			raw:     summary("1", "Compra de sillas", "Mobiliario"),
			include: []string{"software", "datos"},
			want:    false,
		},
		{
			name:    "accents and case are ignored on both sides",
			raw:     summary("1", "SERVICIO DE TECNOLOGÍA", ""),
			include: []string{"tecnologia"},
			want:    true,
		},
		{
			name:    "accented keyword matches plain text",
			raw:     summary("1", "Mantencion de equipos", ""),
			exclude: []string{"Mantención"},
			want:    false,
		},
		{
			name:    "match in description",
			raw:     summary("1", "Servicio", "Análisis de datos"),
			include: []string{"analisis"},
			want:    true,
		},
		{
			name:    "missing fields count as empty",
			raw:     models.RawTender{"CodigoExterno": "1"},
			include: []string{"software"},
			want:    false,
		},
		{
			name:    "substring inside a word",
			raw:     summary("1", "Softwares varios", ""),
			include: []string{"software"},
			want:    true,
		},
		{
			name:    "name and description are joined with a space",
			raw:     summary("1", "inteligencia", "artificial"),
			include: []string{"inteligencia artificial"},
			want:    true,
		},
		{
			name:    "blank exclude keyword is ignored",
			raw:     summary("1", "Software", ""),
			exclude: []string{""},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesKeywords(tt.raw, tt.include, tt.exclude))
		})
	}
}

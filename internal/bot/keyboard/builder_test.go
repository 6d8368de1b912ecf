package keyboard

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedalabs/sedabot/internal/effects"
)

func testBuilder() *Builder {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBuilder(effects.NewRegistry(log), log)
}

func TestMainMenu_Layout(t *testing.T) {
	markup := testBuilder().MainMenu(false)

	require.Len(t, markup.ReplyKeyboard, 3)
	assert.True(t, markup.ResizeKeyboard)
	assert.Equal(t, "🌐 ترجمه متن", markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "💳 خرید امتیاز", markup.ReplyKeyboard[2][1].Text)
}

func TestMainMenu_AdminRow(t *testing.T) {
	markup := testBuilder().MainMenu(true)

	require.Len(t, markup.ReplyKeyboard, 4)
	assert.Equal(t, "🛠 پنل ادمین", markup.ReplyKeyboard[3][0].Text)
}

func TestEffects_CoversCatalogWithNoneLast(t *testing.T) {
	markup := testBuilder().Effects()

	var datas []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			datas = append(datas, btn.Data)
		}
	}

	// eight effects plus the trailing reset button
	require.Len(t, datas, 9)
	assert.Equal(t, "eff:none", datas[len(datas)-1])
	assert.Contains(t, datas, "eff:robot")
	assert.Contains(t, datas, "eff:echo")
}

func TestLanguages_AllTargetsPresent(t *testing.T) {
	markup := testBuilder().Languages()

	var datas []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			datas = append(datas, btn.Data)
		}
	}

	assert.ElementsMatch(t,
		[]string{"trg:fa", "trg:en", "trg:tr", "trg:ar", "trg:ru", "trg:ur"},
		datas,
	)
}

func TestTranslationSession_ShowsCurrentTarget(t *testing.T) {
	markup := testBuilder().TranslationSession("en")

	require.Len(t, markup.InlineKeyboard, 2)
	assert.Contains(t, markup.InlineKeyboard[0][0].Text, "en")
	assert.Equal(t, "tr:change_lang", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, "tr:back_home", markup.InlineKeyboard[1][0].Data)
}

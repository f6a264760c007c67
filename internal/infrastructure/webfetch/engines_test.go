package webfetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const duckDuckGoFixture = `<html><body>
<div class="result results_links">
  <h2 class="result__title">
    <a class="result__a" href="https://a.example.com/preview">曼联 对 利物浦 <b>前瞻</b></a>
  </h2>
  <a class="result__snippet" href="https://a.example.com/preview">主队近五场 <b>不败</b>。</a>
</div>
<div class="result results_links">
  <h2 class="result__title">
    <a class="result__a" href="https://b.example.com/odds">赔率变化</a>
  </h2>
  <div class="result__snippet">初盘半球，临场降至平半。</div>
</div>
<div class="result">
  <h2 class="result__title">
    <a class="result__a" href="https://c.example.com/bare">无摘要条目</a>
  </h2>
</div>
</body></html>`

const bingFixture = `<html><body><ol id="b_results">
<li class="b_algo">
  <h2><a href="https://d.example.com/report">伤停 <em>报告</em></a></h2>
  <div class="b_caption"><p>两名主力缺阵，轮换压力大。</p></div>
</li>
<li class="b_algo">
  <h2><a href="https://e.example.com/history">交锋历史</a></h2>
  <p>近十次交手主队六胜。</p>
</li>
<li class="b_ad">
  <h2><a href="https://ads.example.com">广告</a></h2>
</li>
</ol></body></html>`

func TestParseDuckDuckGo(t *testing.T) {
	hits := parseDuckDuckGo(parseFixture(t, duckDuckGoFixture))

	require.Len(t, hits, 3)
	assert.Equal(t, "曼联 对 利物浦 前瞻", hits[0].Title)
	assert.Equal(t, "https://a.example.com/preview", hits[0].URL)
	assert.Equal(t, "主队近五场 不败。", hits[0].Snippet)

	assert.Equal(t, "赔率变化", hits[1].Title)
	assert.Equal(t, "初盘半球，临场降至平半。", hits[1].Snippet)

	assert.Equal(t, "无摘要条目", hits[2].Title)
	assert.Empty(t, hits[2].Snippet)
}

func TestParseBing(t *testing.T) {
	hits := parseBing(parseFixture(t, bingFixture))

	require.Len(t, hits, 2)
	assert.Equal(t, "伤停 报告", hits[0].Title)
	assert.Equal(t, "https://d.example.com/report", hits[0].URL)
	assert.Equal(t, "两名主力缺阵，轮换压力大。", hits[0].Snippet)

	assert.Equal(t, "交锋历史", hits[1].Title)
	assert.Equal(t, "近十次交手主队六胜。", hits[1].Snippet)
}

func TestParseBingEmptyPage(t *testing.T) {
	assert.Empty(t, parseBing(parseFixture(t, `<html><body><p>no results</p></body></html>`)))
}

// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// AssetList displays a model's asset resolution table.
type AssetList struct {
	assets   []domain.AssetRef
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewAssetList creates an empty asset list.
func NewAssetList(s *styles.Styles) *AssetList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &AssetList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// View renders the visible window of the list.
func (a *AssetList) View() string {
	if len(a.assets) == 0 {
		return a.styles.Muted.Render("No external assets")
	}

	lines := make([]string, 0, len(a.assets)+2)
	lines = append(lines, a.styles.Subtitle.Render(fmt.Sprintf("Assets (%d)", len(a.assets))), "")

	visible := a.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if a.selected >= visible {
		start = a.selected - visible + 1
	}
	end := start + visible
	if end > len(a.assets) {
		end = len(a.assets)
	}

	for i := start; i < end; i++ {
		lines = append(lines, a.renderAsset(i, &a.assets[i]))
	}
	return strings.Join(lines, "\n")
}

func (a *AssetList) renderAsset(index int, ref *domain.AssetRef) string {
	uri := ref.URI
	maxURI := a.width - 32
	if maxURI < 12 {
		maxURI = 12
	}
	if len(uri) > maxURI {
		uri = uri[:maxURI-3] + "..."
	}

	detail := string(ref.Kind)
	if ref.Width > 0 {
		detail = fmt.Sprintf("%s %dx%d", ref.Format, ref.Width, ref.Height)
	} else if ref.Bytes > 0 {
		detail = fmt.Sprintf("%s %s", ref.Kind, humanBytes(int64(ref.Bytes)))
	}

	line := fmt.Sprintf("%-*s  %-8s %s", maxURI, uri, ref.Resolution, detail)
	if index == a.selected {
		return a.styles.Selected.Render("> " + line)
	}
	if ref.Resolution == domain.ResolvedMissing {
		return a.styles.Warning.Render("  " + line)
	}
	return a.styles.Normal.Render("  " + line)
}

// SetAssets replaces the list contents.
func (a *AssetList) SetAssets(assets []domain.AssetRef) {
	a.assets = assets
	a.selected = 0
}

// Assets returns the list contents.
func (a *AssetList) Assets() []domain.AssetRef {
	return a.assets
}

// Selected returns the index of the highlighted asset.
func (a *AssetList) Selected() int {
	return a.selected
}

// SelectedAsset returns the highlighted asset, or nil if empty.
func (a *AssetList) SelectedAsset() *domain.AssetRef {
	if a.selected < 0 || a.selected >= len(a.assets) {
		return nil
	}
	return &a.assets[a.selected]
}

// MoveUp moves the highlight up.
func (a *AssetList) MoveUp() {
	if a.selected > 0 {
		a.selected--
	}
}

// MoveDown moves the highlight down.
func (a *AssetList) MoveDown() {
	if a.selected < len(a.assets)-1 {
		a.selected++
	}
}

// SetDimensions sets the component dimensions.
func (a *AssetList) SetDimensions(width, height int) {
	a.width = width
	a.height = height
}

// Count returns the number of assets.
func (a *AssetList) Count() int {
	return len(a.assets)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

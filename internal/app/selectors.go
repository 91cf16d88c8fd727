package app

// Markup markers for the listing site. The class names are the site's
// obfuscated build artifacts, lifted from observed pages; expect them
// to rot when the site redeploys.
const (
	detailLinkSel = "a.Lwqic.Cj.b"
	nextPageSel   = "a.nav.next"

	headerSel       = `h1[data-test-target="top-info-header"]`
	breadcrumbSel   = "li.breadcrumb"
	locationSel     = "div.vQlTa.H3"
	tagLinkSel      = "a.dlMOJ"
	detailsPanelSel = "div.BMlpu"
	panelLabelSel   = "div.tbUiL.b"
	panelValueSel   = "div.SrqKb"
	starsSel        = "span.ZDEqb"
	reviewCountSel  = "a.IcelI"
	claimedSel      = "span.ui_icon.verified-checkmark"
	heroImageSel    = "img.basicImg"
	hoursSel        = "span.mMkhr"
	scriptSel       = `script[type="text/javascript"]`

	reviewContainerSel = "div.review-container"
	reviewTitleSel     = "span.noQuotes"
	reviewTextSel      = "p.partial_entry"
	reviewDateSel      = "span.ratingDate"
	reviewMemberSel    = "div.memberOverlayLink"
	reviewVotesSel     = "span.numHelp"
	bubbleRatingSel    = `span[class*="bubble-"]`
)

// placeholder the site renders where an owner never filed a number
const noPhonePlaceholder = "+ Add phone"

const currencySymbols = "$€£¥"

// Package dataset supplies hierarchy levels to the renderers.
//
// A [Source] returns the raw spending response for one level key. [Dir]
// reads the JSON files the prefetcher writes; the usaspending client
// queries the live API; [Chain] tries several sources in order.
//
// [Loader] turns responses into [hierarchy.Level] values: it resolves the
// level title from the parent response, builds the breadcrumb trail and
// computes the share of the grand total the level represents, which the
// treemap uses to rescale a personal contribution.
//
// Directory layout, one file per level:
//
//	fy2024.json                    all agencies
//	agency_1125.json               federal accounts of agency 1125
//	agency_1125_account_7.json     program activities of account 7
package dataset

package quality

import (
	"hypewatch/internal/domain/collection"
	"hypewatch/internal/domain/market"
)

// PriceRecords converts price ticks to assessable records
func PriceRecords(prices []market.PriceRecord) []Record {
	records := make([]Record, len(prices))
	for i, p := range prices {
		records[i] = Record{
			FieldCoinSymbol: p.CoinSymbol,
			FieldPriceUSD:   p.PriceUSD,
			FieldMarketCap:  p.MarketCap,
			FieldVolume24h:  p.Volume24h,
			FieldTimestamp:  p.Timestamp,
		}
	}
	return records
}

// SourceRecords converts social items to assessable records. The record type
// decides which engagement metric feeds outlier detection.
func SourceRecords(recordType RecordType, items []collection.SourceItem) []Record {
	records := make([]Record, len(items))
	for i, item := range items {
		record := Record{
			FieldID:         item.ID,
			FieldCoinSymbol: item.CoinSymbol,
			FieldAuthor:     item.AuthorHandle,
			FieldText:       item.Text,
			FieldTimestamp:  item.CreatedAt,
		}
		switch recordType {
		case RecordForum:
			record[FieldScore] = item.EngagementCount(collection.EngagementScore)
		case RecordVideo:
			record[FieldViews] = item.EngagementCount(collection.EngagementViews)
		}
		records[i] = record
	}
	return records
}

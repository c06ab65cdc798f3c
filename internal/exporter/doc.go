// Package exporter writes the tables of a result bundle as CSV files.
//
// CSVWriter handles the file mechanics (directory creation, optional UTF-8
// BOM so spreadsheet tools detect the encoding). BundleExporter maps each
// bundle table onto one file:
//
//	kpis.csv          metric,value
//	category_sales.csv key,total
//	region_sales.csv  key,total
//	monthly_sales.csv month,total
//	top_products.csv  product,total
//	feedback.csv      feedback,count
//	methods.csv       label,payment,shipping
//
// Rows keep the order the bundle holds them in.
package exporter

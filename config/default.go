package config

// DefaultConfigYAML 嵌入的默认配置，外部配置文件与环境变量可逐项覆盖
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"

database:
  host: "localhost"
  port: "3306"
  username: "expensy"
  password: "expensy"
  dbname: "expensy"
  charset: "utf8mb4"

sheet:
  credentials_file: ""
  spreadsheet_id: ""
  sheet_name: "records"

scrape:
  devtools_url: "ws://127.0.0.1:9222"
  macro_url: "https://www.macro.com.ar/bancainternet/#"
  mercadopago_url: "https://www.mercadopago.com.ar/finance/spending-tracking"
  settle_seconds: 2

# classifier.rules 非空时整体覆盖内置规则表，示例：
# classifier:
#   rules:
#     - category: 3
#       patterns: ["PAGOS360", "DPEC"]
classifier:
  rules: []
`)

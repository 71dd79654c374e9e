package api

// indexPage is the minimal endpoint listing served at the root path.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>MarketHarvester</title>
  <style>
    body { font-family: monospace; margin: 2rem; }
    li { margin: 0.3rem 0; }
  </style>
</head>
<body>
  <h1>MarketHarvester</h1>
  <p>Indonesian market data snapshots, refreshed on a trading-hours schedule.</p>
  <ul>
    <li><a href="/api/stocks-data">/api/stocks-data</a> &mdash; IDX stock summary</li>
    <li><a href="/api/gold-data">/api/gold-data</a> &mdash; gold spot / Antam / UBS prices</li>
    <li><a href="/api/crypto-data">/api/crypto-data</a> &mdash; BTC / ETH / USDT in IDR</li>
    <li><a href="/api/all-data">/api/all-data</a> &mdash; everything, merged</li>
    <li>/api/trigger-fetch?key=&lt;secret&gt;[&amp;force=true][&amp;target=stocks|gold_crypto|all] &mdash; manual refresh</li>
  </ul>
</body>
</html>
`
